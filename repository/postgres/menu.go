package postgres

import (
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs/tables"

	"github.com/uptrace/bun"
)

func (s *Store) ListCategoriesWithItems(ctx context.Context) ([]tables.MenuCategory, error) {
	var categories []tables.MenuCategory

	err := s.db.NewSelect().
		Model(&categories).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("mi.is_available = TRUE").OrderExpr("mi.id ASC")
		}).
		OrderExpr("mc.display_order ASC, mc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	for i := range categories {
		if categories[i].Items == nil {
			categories[i].Items = []tables.MenuItem{}
		}
	}
	return categories, nil
}

func (s *Store) ListItemsByCategory(ctx context.Context, categoryId int64) ([]tables.MenuItem, error) {
	return database.Query[tables.MenuItem](s.db).
		Timeout(queryTimeout).
		Where("mi.category_id", categoryId).
		Where("mi.is_available", true).
		OrderBy("mi.id", database.ASC).
		All(ctx)
}

func (s *Store) GetItem(ctx context.Context, id int64) (*tables.MenuItem, error) {
	return notFound(database.Query[tables.MenuItem](s.db).
		Timeout(queryTimeout).
		With("Category").
		Where("mi.id", id).
		First(ctx))
}

func (s *Store) GetItemsByIds(ctx context.Context, ids []int64) ([]tables.MenuItem, error) {
	if len(ids) == 0 {
		return []tables.MenuItem{}, nil
	}
	return database.Query[tables.MenuItem](s.db).
		Timeout(queryTimeout).
		WhereIn("mi.id", ids).
		All(ctx)
}

func (s *Store) SeedCategory(ctx context.Context, c *tables.MenuCategory) (*tables.MenuCategory, error) {
	row := *c
	row.Items = nil

	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (name) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("display_order = EXCLUDED.display_order").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return &row, nil
}

func (s *Store) SeedMenuItem(ctx context.Context, item *tables.MenuItem) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := database.Query[tables.MenuItem](tx).
			Where("mi.category_id", item.CategoryId).
			Where("mi.name", item.Name).
			First(ctx)
		if err != nil {
			return err
		}

		if existing == nil {
			_, err = database.Create(tx, ctx, item)
			return err
		}

		_, err = database.UpdateByID[tables.MenuItem](tx, ctx, existing.Id, map[string]any{
			"description":  item.Description,
			"price":        item.Price,
			"image_url":    item.ImageUrl,
			"is_available": item.IsAvailable,
		})
		return err
	})
}
