package postgres

import (
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs"
	"restoran_server/structs/tables"
)

func (s *Store) CreateMessage(ctx context.Context, m *tables.ContactMessage) (*tables.ContactMessage, error) {
	return database.Query[tables.ContactMessage](s.db).Timeout(queryTimeout).Insert(ctx, m)
}

func (s *Store) ListMessages(ctx context.Context, opts structs.ContactListOptions) ([]tables.ContactMessage, int, error) {
	q := database.Query[tables.ContactMessage](s.db).Timeout(queryTimeout)

	if opts.IsRead != nil {
		q = q.Where("cm.is_read", *opts.IsRead)
	}

	res, err := database.Paginate(
		q.OrderBy("cm.created_at", database.DESC).OrderBy("cm.id", database.DESC),
		ctx, opts.Page, opts.Limit,
	)
	if err != nil {
		return nil, 0, err
	}
	return res.Data, res.Pagination.Total, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id int64) (*tables.ContactMessage, error) {
	rows, err := database.Query[tables.ContactMessage](s.db).
		Timeout(queryTimeout).
		Where("id", id).
		UpdateReturning(ctx, map[string]any{"is_read": true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	n, err := database.DeleteByID[tables.ContactMessage](s.db, ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
