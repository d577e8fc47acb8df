package services

import (
	"context"
	"fmt"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

// AvailabilityService answers which tables can seat a party at a given time.
type AvailabilityService struct {
	logger   *gecho.Logger
	tables   repository.TableRepository
	bookings repository.BookingRepository
}

func NewAvailabilityService(logger *gecho.Logger, tableRepo repository.TableRepository, bookingRepo repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{
		logger:   logger,
		tables:   tableRepo,
		bookings: bookingRepo,
	}
}

// AvailableTables returns the available tables with capacity >= partySize and no
// active booking starting within an hour of start, smallest capacity first.
func (as *AvailabilityService) AvailableTables(ctx context.Context, start time.Time, partySize int) ([]tables.RestaurantTable, error) {
	candidates, err := as.tables.ListTables(ctx, repository.TableFilter{
		MinCapacity:   partySize,
		AvailableOnly: true,
		BySize:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate tables: %w", err)
	}
	if len(candidates) == 0 {
		return []tables.RestaurantTable{}, nil
	}

	booked, err := as.bookings.BookedTableIds(ctx, repository.ConflictWindow(start))
	if err != nil {
		return nil, fmt.Errorf("failed to load conflicting bookings: %w", err)
	}

	free := make([]tables.RestaurantTable, 0, len(candidates))
	for _, t := range candidates {
		if _, taken := booked[t.Id]; !taken {
			free = append(free, t)
		}
	}

	as.logger.Debug("Availability computed",
		gecho.Field("starts_at", start),
		gecho.Field("party_size", partySize),
		gecho.Field("candidates", len(candidates)),
		gecho.Field("free", len(free)),
	)
	return free, nil
}

// Check parses a date and time and returns the free tables for them.
func (as *AvailabilityService) Check(ctx context.Context, date, clock string, partySize int) ([]tables.RestaurantTable, error) {
	start, err := lib.BookingStart(date, clock)
	if err != nil {
		return nil, lib.NewValidationError("date", "must be a valid date and time")
	}
	return as.AvailableTables(ctx, start, partySize)
}
