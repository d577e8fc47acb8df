package memory

import (
	"cmp"
	"context"
	"restoran_server/lib"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"slices"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateOrderHeader(ctx context.Context, o *tables.Order) (*tables.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	row := *o
	row.Id = s.nextId("orders")
	row.OrderNumber = lib.FormatOrderNumber(row.Id)
	if row.Status == "" {
		row.Status = tables.OrderStatusPending
	}
	if row.PaymentStatus == "" {
		row.PaymentStatus = tables.PaymentStatusPending
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	row.Items = nil
	s.orders[row.Id] = row
	return &row, nil
}

func (s *Store) CreateOrderItems(ctx context.Context, items []tables.OrderItem) ([]tables.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch first so a failure writes nothing
	for _, it := range items {
		if _, ok := s.orders[it.OrderId]; !ok {
			return nil, lib.ErrInvalidReference
		}
		if _, ok := s.items[it.MenuItemId]; !ok {
			return nil, lib.ErrInvalidReference
		}
	}

	out := make([]tables.OrderItem, 0, len(items))
	for _, it := range items {
		it.Id = s.nextId("order_items")
		s.orderItems[it.Id] = it
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return lib.ErrNotFound
	}
	delete(s.orders, id)
	for itemId, it := range s.orderItems {
		if it.OrderId == id {
			delete(s.orderItems, itemId)
		}
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, userId uuid.UUID, opts structs.OrderListOptions) ([]tables.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []tables.Order{}
	for _, o := range s.orders {
		if o.UserId == nil || *o.UserId != userId {
			continue
		}
		if opts.Status != "" && string(o.Status) != opts.Status {
			continue
		}
		all = append(all, s.withItems(o))
	}

	slices.SortFunc(all, func(a, b tables.Order) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.Id, a.Id))
	})

	start := min(max(opts.Offset, 0), len(all))
	end := len(all)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, len(all))
	}
	return all[start:end], nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*tables.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	o = s.withItems(o)
	return &o, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, from, to tables.OrderStatus) (*tables.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	if o.Status != from {
		return nil, lib.ErrConflict
	}
	if from != to {
		o.Status = to
		o.UpdatedAt = time.Now()
		s.orders[id] = o
	}

	o = s.withItems(o)
	return &o, nil
}

// withItems attaches the order lines; mu must be held.
func (s *Store) withItems(o tables.Order) tables.Order {
	o.Items = []tables.OrderItem{}
	for _, it := range s.orderItems {
		if it.OrderId == o.Id {
			o.Items = append(o.Items, it)
		}
	}
	slices.SortFunc(o.Items, func(a, b tables.OrderItem) int { return cmp.Compare(a.Id, b.Id) })
	return o
}
