package services

import (
	"context"
	"errors"
	"fmt"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	logger   *gecho.Logger
	repo     repository.OrderRepository
	menu     repository.MenuRepository
	notifier *NotificationService
}

func NewOrderService(logger *gecho.Logger, repo repository.OrderRepository, menu repository.MenuRepository, notifier *NotificationService) *OrderService {
	return &OrderService{
		logger:   logger,
		repo:     repo,
		menu:     menu,
		notifier: notifier,
	}
}

// CreateOrder prices the lines from the menu, writes the header and then the
// lines. A failed line write deletes the header again.
func (os *OrderService) CreateOrder(ctx context.Context, req *structs.OrderRequest, userId *uuid.UUID) (*tables.Order, error) {
	orderType := tables.OrderType(req.OrderType)
	if orderType == "" {
		orderType = tables.OrderTypeDelivery
	}
	if orderType == tables.OrderTypeDelivery && strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, lib.NewValidationError("delivery_address", "is required for delivery orders")
	}

	items, total, err := os.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := os.repo.CreateOrderHeader(ctx, &tables.Order{
		UserId:              userId,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		OrderType:           orderType,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		TotalAmount:         total,
		Status:              tables.OrderStatusPending,
		PaymentStatus:       tables.PaymentStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderId = order.Id
	}

	created, err := os.repo.CreateOrderItems(ctx, items)
	if err != nil {
		os.logger.Error("Failed to create order items, removing order header",
			gecho.Field("order_id", order.Id),
			gecho.Field("error", err),
		)
		if delErr := os.repo.DeleteOrder(context.WithoutCancel(ctx), order.Id); delErr != nil {
			os.logger.Error("Compensating delete failed, order header is orphaned",
				gecho.Field("order_id", order.Id),
				gecho.Field("error", delErr),
			)
		}
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	order.Items = created

	os.logger.Info("Order created",
		gecho.Field("order_id", order.Id),
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("total", total.StringFixed(2)),
	)

	os.notifier.Submit(Notification{
		Kind:  "order",
		Event: NewEvent(EventOrderCreated, order),
	})
	return order, nil
}

// priceItems snapshots name and price of every requested menu item.
func (os *OrderService) priceItems(ctx context.Context, reqItems []structs.OrderItemRequest) ([]tables.OrderItem, decimal.Decimal, error) {
	ids := make([]int64, 0, len(reqItems))
	for _, it := range reqItems {
		ids = append(ids, it.MenuItemId)
	}

	menuItems, err := os.menu.GetItemsByIds(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to load menu items: %w", err)
	}
	byId := make(map[int64]tables.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byId[mi.Id] = mi
	}

	total := decimal.Zero
	items := make([]tables.OrderItem, 0, len(reqItems))
	for _, it := range reqItems {
		mi, ok := byId[it.MenuItemId]
		if !ok || !mi.IsAvailable {
			return nil, decimal.Zero, fmt.Errorf("%w: menu item %d", lib.ErrItemUnavailable, it.MenuItemId)
		}

		line := mi.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		items = append(items, tables.OrderItem{
			MenuItemId:      mi.Id,
			Quantity:        it.Quantity,
			UnitPrice:       mi.Price,
			TotalPrice:      line,
			ItemName:        mi.Name,
			SpecialRequests: it.SpecialRequests,
		})
	}

	return items, total, nil
}

func (os *OrderService) ListOrders(ctx context.Context, userId uuid.UUID, opts structs.OrderListOptions) ([]tables.Order, error) {
	return os.repo.ListOrders(ctx, userId, opts)
}

// GetOrder returns the order only when it belongs to userId.
func (os *OrderService) GetOrder(ctx context.Context, id int64, userId uuid.UUID) (*tables.Order, error) {
	order, err := os.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserId == nil || *order.UserId != userId {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

func (os *OrderService) UpdateStatus(ctx context.Context, id int64, userId uuid.UUID, status string) (*tables.Order, error) {
	next, ok := tables.ParseOrderStatus(status)
	if !ok {
		return nil, lib.NewValidationError("status", "must be one of: pending confirmed preparing ready delivered cancelled")
	}

	order, err := os.GetOrder(ctx, id, userId)
	if err != nil {
		return nil, err
	}

	if next == tables.OrderStatusCancelled && order.Status != tables.OrderStatusPending && order.Status != tables.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", lib.ErrInvalidTransition)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: order is %s and cannot become %s", lib.ErrInvalidTransition, order.Status, next)
	}

	updated, err := os.repo.UpdateOrderStatus(ctx, id, order.Status, next)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, fmt.Errorf("%w: order status changed concurrently", lib.ErrInvalidTransition)
		}
		return nil, err
	}

	if order.Status != next {
		os.notifier.Submit(Notification{
			Kind: "order_status",
			Event: NewEvent(EventOrderStatusChanged, map[string]any{
				"order_id": id,
				"from":     order.Status,
				"to":       next,
			}),
		})
	}
	return updated, nil
}

func (os *OrderService) Cancel(ctx context.Context, id int64, userId uuid.UUID) (*tables.Order, error) {
	return os.UpdateStatus(ctx, id, userId, string(tables.OrderStatusCancelled))
}
