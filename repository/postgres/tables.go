package postgres

import (
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs/tables"
)

func (s *Store) ListTables(ctx context.Context, filter repository.TableFilter) ([]tables.RestaurantTable, error) {
	q := database.Query[tables.RestaurantTable](s.db).Timeout(queryTimeout)

	if filter.Location != "" {
		q = q.WhereRaw("LOWER(rt.location) = LOWER(?)", filter.Location)
	}
	if filter.MinCapacity > 0 {
		q = q.WhereOp("rt.capacity", ">=", filter.MinCapacity)
	}
	if filter.AvailableOnly {
		q = q.Where("rt.is_available", true)
	}

	if filter.BySize {
		q = q.OrderBy("rt.capacity", database.ASC).OrderBy("rt.id", database.ASC)
	} else {
		q = q.OrderBy("rt.table_number", database.ASC)
	}

	return q.All(ctx)
}

func (s *Store) GetTable(ctx context.Context, id int64) (*tables.RestaurantTable, error) {
	return notFound(database.FindByID[tables.RestaurantTable](s.db, ctx, id))
}

func (s *Store) SeedTable(ctx context.Context, t *tables.RestaurantTable) error {
	_, err := s.db.NewInsert().
		Model(t).
		On("CONFLICT (table_number) DO UPDATE").
		Set("capacity = EXCLUDED.capacity").
		Set("location = EXCLUDED.location").
		Set("is_available = EXCLUDED.is_available").
		Exec(ctx)
	return lib.MapPgError(err)
}
