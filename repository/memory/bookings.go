package memory

import (
	"cmp"
	"context"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"slices"
	"strings"
	"time"
)

func (s *Store) BookedTableIds(ctx context.Context, w repository.Window) (map[int64]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bookedTableIds(w), nil
}

func (s *Store) bookedTableIds(w repository.Window) map[int64]struct{} {
	booked := make(map[int64]struct{})
	for _, b := range s.bookings {
		if b.Status.IsActive() && w.Contains(b.StartsAt) {
			booked[b.TableId] = struct{}{}
		}
	}
	return booked
}

func (s *Store) ReserveTable(ctx context.Context, b *tables.Booking) (*tables.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[b.TableId]
	if !ok {
		return nil, lib.ErrInvalidReference
	}

	if _, taken := s.bookedTableIds(repository.ConflictWindow(b.StartsAt))[b.TableId]; taken {
		return nil, lib.ErrTableUnavailable
	}

	now := time.Now()
	row := *b
	row.Id = s.nextId("bookings")
	row.Status = tables.BookingStatusPending
	row.CreatedAt = now
	row.UpdatedAt = now
	row.Table = nil
	s.bookings[row.Id] = row

	row.Table = &table
	return &row, nil
}

func (s *Store) ListBookings(ctx context.Context, opts structs.BookingListOptions) ([]tables.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []tables.Booking{}
	for _, b := range s.bookings {
		if opts.Date != "" && b.BookingDate != opts.Date {
			continue
		}
		if opts.Status != "" && string(b.Status) != opts.Status {
			continue
		}
		if opts.Email != "" && !strings.EqualFold(b.GuestEmail, opts.Email) {
			continue
		}
		out = append(out, s.withTable(b))
	}

	slices.SortFunc(out, func(a, b tables.Booking) int {
		return cmp.Or(
			cmp.Compare(b.BookingDate, a.BookingDate),
			cmp.Compare(b.BookingTime, a.BookingTime),
			cmp.Compare(b.Id, a.Id),
		)
	})
	return out, nil
}

func (s *Store) ListTableBookings(ctx context.Context, tableId int64, date string) ([]tables.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []tables.Booking{}
	for _, b := range s.bookings {
		if b.TableId != tableId || !b.Status.IsActive() {
			continue
		}
		if date != "" && b.BookingDate != date {
			continue
		}
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b tables.Booking) int {
		return cmp.Or(a.StartsAt.Compare(b.StartsAt), cmp.Compare(a.Id, b.Id))
	})
	return out, nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*tables.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	b = s.withTable(b)
	return &b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, from, to tables.BookingStatus) (*tables.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	if b.Status != from {
		return nil, lib.ErrConflict
	}

	if from != to {
		b.Status = to
		b.UpdatedAt = time.Now()
		s.bookings[id] = b
	}

	b = s.withTable(b)
	return &b, nil
}

// withTable attaches the table summary; mu must be held.
func (s *Store) withTable(b tables.Booking) tables.Booking {
	if t, ok := s.tables[b.TableId]; ok {
		b.Table = &t
	}
	return b
}
