package memory

import (
	"cmp"
	"context"
	"restoran_server/lib"
	"restoran_server/structs/tables"
	"slices"
	"strings"
	"time"
)

func (s *Store) ListCategoriesWithItems(ctx context.Context) ([]tables.MenuCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tables.MenuCategory, 0, len(s.categories))
	for _, c := range s.categories {
		c.Items = s.availableItems(c.Id)
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b tables.MenuCategory) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.Id, b.Id))
	})
	return out, nil
}

func (s *Store) ListItemsByCategory(ctx context.Context, categoryId int64) ([]tables.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.availableItems(categoryId), nil
}

func (s *Store) availableItems(categoryId int64) []tables.MenuItem {
	out := []tables.MenuItem{}
	for _, it := range s.items {
		if it.CategoryId == categoryId && it.IsAvailable {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b tables.MenuItem) int { return cmp.Compare(a.Id, b.Id) })
	return out
}

func (s *Store) GetItem(ctx context.Context, id int64) (*tables.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	if c, ok := s.categories[it.CategoryId]; ok {
		it.Category = &c
	}
	return &it, nil
}

func (s *Store) GetItemsByIds(ctx context.Context, ids []int64) ([]tables.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []tables.MenuItem{}
	for _, id := range ids {
		if it, ok := s.items[id]; ok && !slices.ContainsFunc(out, func(o tables.MenuItem) bool { return o.Id == id }) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) SeedCategory(ctx context.Context, c *tables.MenuCategory) (*tables.MenuCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			existing.Description = c.Description
			existing.DisplayOrder = c.DisplayOrder
			s.categories[id] = existing
			return &existing, nil
		}
	}

	row := *c
	row.Id = s.nextId("menu_categories")
	row.CreatedAt = time.Now()
	row.Items = nil
	s.categories[row.Id] = row
	return &row, nil
}

func (s *Store) SeedMenuItem(ctx context.Context, item *tables.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[item.CategoryId]; !ok {
		return lib.ErrInvalidReference
	}

	for id, existing := range s.items {
		if existing.CategoryId == item.CategoryId && existing.Name == item.Name {
			existing.Description = item.Description
			existing.Price = item.Price
			existing.ImageUrl = item.ImageUrl
			existing.IsAvailable = item.IsAvailable
			s.items[id] = existing
			return nil
		}
	}

	row := *item
	row.Id = s.nextId("menu_items")
	row.CreatedAt = time.Now()
	row.Category = nil
	s.items[row.Id] = row
	return nil
}
