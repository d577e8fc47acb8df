package tables

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	Id          int64      `bun:"id,pk,autoincrement" json:"id"`
	OrderNumber string     `bun:"-" json:"order_number"`
	UserId      *uuid.UUID `bun:"user_id,type:uuid" json:"user_id"`

	// Customer Data
	CustomerName        string    `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail       string    `bun:"customer_email,notnull" json:"customer_email"`
	CustomerPhone       string    `bun:"customer_phone,notnull" json:"customer_phone"`
	OrderType           OrderType `bun:"order_type,notnull,default:'delivery'" json:"order_type"`
	DeliveryAddress     string    `bun:"delivery_address" json:"delivery_address,omitempty"`
	SpecialInstructions string    `bun:"special_instructions" json:"special_instructions,omitempty"`

	// Order Data
	TotalAmount   decimal.Decimal `bun:"total_amount,type:numeric(10,2),notnull" json:"total_amount"`
	Status        OrderStatus     `bun:"status,notnull,default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull,default:'pending'" json:"payment_status"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"order_items,omitempty"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	Id         int64 `bun:"id,pk,autoincrement" json:"id"`
	OrderId    int64 `bun:"order_id,notnull" json:"order_id"`
	MenuItemId int64 `bun:"menu_item_id,notnull" json:"menu_item_id"`
	Quantity   int   `bun:"quantity,notnull" json:"quantity"`

	// Snapshot of pricing at time of order
	UnitPrice       decimal.Decimal `bun:"unit_price,type:numeric(10,2),notnull" json:"unit_price"`
	TotalPrice      decimal.Decimal `bun:"total_price,type:numeric(10,2),notnull" json:"total_price"`
	ItemName        string          `bun:"item_name,notnull" json:"item_name"`
	SpecialRequests string          `bun:"special_requests" json:"special_requests,omitempty"`
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDineIn   OrderType = "dine-in"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusDelivered},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return slices.Contains(orderTransitions[s], next)
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)
