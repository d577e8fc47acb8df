package postgres

import (
	"context"
	"errors"
	"fmt"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"

	"github.com/uptrace/bun"
)

const bookingLockNamespace = "bookings.table"

func (s *Store) BookedTableIds(ctx context.Context, w repository.Window) (map[int64]struct{}, error) {
	var ids []int64

	err := s.db.NewSelect().
		Model((*tables.Booking)(nil)).
		ColumnExpr("DISTINCT b.table_id").
		Where("b.status <> ?", tables.BookingStatusCancelled).
		Where("b.starts_at BETWEEN ? AND ?", w.From, w.To).
		Scan(ctx, &ids)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	booked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		booked[id] = struct{}{}
	}
	return booked, nil
}

// ReserveTable serializes writers per table with a transaction-scoped advisory
// lock, re-checks the conflict window and inserts. The bookings_no_overlap
// exclusion constraint rejects anything that slips past.
func (s *Store) ReserveTable(ctx context.Context, b *tables.Booking) (*tables.Booking, error) {
	row := *b
	row.Table = nil
	row.Status = tables.BookingStatusPending

	err := database.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := database.AdvisoryXactLock(ctx, tx, bookingLockNamespace, row.TableId); err != nil {
			return err
		}

		w := repository.ConflictWindow(row.StartsAt)
		taken, err := database.Query[tables.Booking](tx).
			Where("b.table_id", row.TableId).
			WhereOp("b.status", "<>", tables.BookingStatusCancelled).
			WhereRaw("b.starts_at BETWEEN ? AND ?", w.From, w.To).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return lib.ErrTableUnavailable
		}

		_, err = database.Create(tx, ctx, &row)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, lib.ErrOverlap):
		return nil, lib.ErrTableUnavailable
	default:
		return nil, err
	}

	table, err := s.GetTable(ctx, row.TableId)
	if err != nil {
		return nil, fmt.Errorf("booking %d created but table lookup failed: %w", row.Id, err)
	}
	row.Table = table
	return &row, nil
}

func (s *Store) ListBookings(ctx context.Context, opts structs.BookingListOptions) ([]tables.Booking, error) {
	q := database.Query[tables.Booking](s.db).
		Timeout(queryTimeout).
		With("Table")

	if opts.Date != "" {
		q = q.Where("b.booking_date", opts.Date)
	}
	if opts.Status != "" {
		q = q.Where("b.status", opts.Status)
	}
	if opts.Email != "" {
		q = q.WhereRaw("LOWER(b.guest_email) = LOWER(?)", opts.Email)
	}

	return q.OrderBy("b.booking_date", database.DESC).
		OrderBy("b.booking_time", database.DESC).
		OrderBy("b.id", database.DESC).
		All(ctx)
}

func (s *Store) ListTableBookings(ctx context.Context, tableId int64, date string) ([]tables.Booking, error) {
	q := database.Query[tables.Booking](s.db).
		Timeout(queryTimeout).
		Where("b.table_id", tableId).
		WhereOp("b.status", "<>", tables.BookingStatusCancelled)

	if date != "" {
		q = q.Where("b.booking_date", date)
	}

	return q.OrderBy("b.starts_at", database.ASC).All(ctx)
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*tables.Booking, error) {
	return notFound(database.Query[tables.Booking](s.db).
		Timeout(queryTimeout).
		With("Table").
		Where("b.id", id).
		First(ctx))
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, from, to tables.BookingStatus) (*tables.Booking, error) {
	if from != to {
		n, err := database.Query[tables.Booking](s.db).
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
			// Either gone or moved by someone else
			if _, err := s.GetBooking(ctx, id); err != nil {
				return nil, err
			}
			return nil, lib.ErrConflict
		}
	}

	return s.GetBooking(ctx, id)
}
