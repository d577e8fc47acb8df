package structs

import "github.com/shopspring/decimal"

type OrderRequest struct {
	CustomerName        string             `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail       string             `json:"customer_email" validate:"required,email"`
	CustomerPhone       string             `json:"customer_phone" validate:"required,max=30"`
	OrderType           string             `json:"order_type" validate:"omitempty,oneof=delivery pickup dine-in"`
	DeliveryAddress     string             `json:"delivery_address" validate:"max=300"`
	SpecialInstructions string             `json:"special_instructions" validate:"max=500"`
	Items               []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`

	// Client-side totals are accepted for compatibility and recomputed from the menu.
	TotalAmount any `json:"total_amount,omitempty"`
}

type OrderItemRequest struct {
	MenuItemId      int64  `json:"menu_item_id" validate:"required,gt=0"`
	Quantity        int    `json:"quantity" validate:"required,min=1,max=99"`
	SpecialRequests string `json:"special_requests" validate:"max=200"`

	UnitPrice  any `json:"unit_price,omitempty"`
	TotalPrice any `json:"total_price,omitempty"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

type OrderListOptions struct {
	Status string
	Limit  int
	Offset int
}

// OrderSummary is returned after checkout.
type OrderSummary struct {
	Id          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
