package memory

import (
	"cmp"
	"context"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs/tables"
	"slices"
	"strings"
	"time"
)

func (s *Store) ListTables(ctx context.Context, filter repository.TableFilter) ([]tables.RestaurantTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []tables.RestaurantTable{}
	for _, t := range s.tables {
		if filter.Location != "" && !strings.EqualFold(t.Location, filter.Location) {
			continue
		}
		if filter.MinCapacity > 0 && t.Capacity < filter.MinCapacity {
			continue
		}
		if filter.AvailableOnly && !t.IsAvailable {
			continue
		}
		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b tables.RestaurantTable) int {
		if filter.BySize {
			return cmp.Or(cmp.Compare(a.Capacity, b.Capacity), cmp.Compare(a.Id, b.Id))
		}
		return cmp.Compare(a.TableNumber, b.TableNumber)
	})
	return out, nil
}

func (s *Store) GetTable(ctx context.Context, id int64) (*tables.RestaurantTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &t, nil
}

func (s *Store) SeedTable(ctx context.Context, t *tables.RestaurantTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.tables {
		if existing.TableNumber == t.TableNumber {
			existing.Capacity = t.Capacity
			existing.Location = t.Location
			existing.IsAvailable = t.IsAvailable
			s.tables[id] = existing
			return nil
		}
	}

	row := *t
	row.Id = s.nextId("restaurant_tables")
	row.CreatedAt = time.Now()
	s.tables[row.Id] = row
	return nil
}
