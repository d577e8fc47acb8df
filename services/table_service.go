package services

import (
	"context"
	"restoran_server/repository"
	"restoran_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type TableService struct {
	logger   *gecho.Logger
	repo     repository.TableRepository
	bookings repository.BookingRepository
}

func NewTableService(logger *gecho.Logger, repo repository.TableRepository, bookings repository.BookingRepository) *TableService {
	return &TableService{
		logger:   logger,
		repo:     repo,
		bookings: bookings,
	}
}

func (ts *TableService) ListTables(ctx context.Context, filter repository.TableFilter) ([]tables.RestaurantTable, error) {
	return ts.repo.ListTables(ctx, filter)
}

func (ts *TableService) GetTable(ctx context.Context, id int64) (*tables.RestaurantTable, error) {
	return ts.repo.GetTable(ctx, id)
}

// TableBookings lists the active bookings of a table, optionally for one date.
func (ts *TableService) TableBookings(ctx context.Context, id int64, date string) ([]tables.Booking, error) {
	if _, err := ts.repo.GetTable(ctx, id); err != nil {
		return nil, err
	}
	return ts.bookings.ListTableBookings(ctx, id, date)
}
