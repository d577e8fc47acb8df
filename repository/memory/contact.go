package memory

import (
	"cmp"
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"slices"
	"time"
)

func (s *Store) CreateMessage(ctx context.Context, m *tables.ContactMessage) (*tables.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *m
	row.Id = s.nextId("contact_messages")
	row.IsRead = false
	row.CreatedAt = time.Now()
	s.messages[row.Id] = row
	return &row, nil
}

func (s *Store) ListMessages(ctx context.Context, opts structs.ContactListOptions) ([]tables.ContactMessage, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []tables.ContactMessage{}
	for _, m := range s.messages {
		if opts.IsRead != nil && m.IsRead != *opts.IsRead {
			continue
		}
		all = append(all, m)
	}

	slices.SortFunc(all, func(a, b tables.ContactMessage) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.Id, a.Id))
	})

	page, limit := database.NormalizePage(opts.Page, opts.Limit)
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))

	return all[start:end], len(all), nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id int64) (*tables.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	m.IsRead = true
	s.messages[id] = m
	return &m, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return lib.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}
