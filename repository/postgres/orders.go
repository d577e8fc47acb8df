package postgres

import (
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs"
	"restoran_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (s *Store) CreateOrderHeader(ctx context.Context, o *tables.Order) (*tables.Order, error) {
	row := *o
	row.Items = nil

	if _, err := database.Query[tables.Order](s.db).Timeout(queryTimeout).Insert(ctx, &row); err != nil {
		return nil, err
	}
	row.OrderNumber = lib.FormatOrderNumber(row.Id)
	return &row, nil
}

func (s *Store) CreateOrderItems(ctx context.Context, items []tables.OrderItem) ([]tables.OrderItem, error) {
	return database.Query[tables.OrderItem](s.db).Timeout(queryTimeout).InsertMany(ctx, items)
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	// order_items cascade
	n, err := database.DeleteByID[tables.Order](s.db, ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, userId uuid.UUID, opts structs.OrderListOptions) ([]tables.Order, error) {
	q := database.Query[tables.Order](s.db).
		Timeout(queryTimeout).
		With("Items").
		Where("o.user_id", userId)

	if opts.Status != "" {
		q = q.Where("o.status", opts.Status)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	orders, err := q.OrderBy("o.created_at", database.DESC).OrderBy("o.id", database.DESC).All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].OrderNumber = lib.FormatOrderNumber(orders[i].Id)
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*tables.Order, error) {
	o, err := notFound(database.Query[tables.Order](s.db).
		Timeout(queryTimeout).
		With("Items").
		Where("o.id", id).
		First(ctx))
	if err != nil {
		return nil, err
	}
	o.OrderNumber = lib.FormatOrderNumber(o.Id)
	return o, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, from, to tables.OrderStatus) (*tables.Order, error) {
	if from != to {
		n, err := database.Query[tables.Order](s.db).
			Timeout(queryTimeout).
			Where("id", id).
			Where("status", from).
			Update(ctx, map[string]any{
				"status":     to,
				"updated_at": bun.Safe("CURRENT_TIMESTAMP"),
			})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if _, err := s.GetOrder(ctx, id); err != nil {
				return nil, err
			}
			return nil, lib.ErrConflict
		}
	}

	return s.GetOrder(ctx, id)
}
