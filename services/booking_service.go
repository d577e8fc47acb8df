package services

import (
	"context"
	"errors"
	"fmt"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

type BookingService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	repo         repository.BookingRepository
	tables       repository.TableRepository
	availability *AvailabilityService
	notifier     *NotificationService
}

func NewBookingService(
	logger *gecho.Logger,
	cfg *structs.Config,
	repo repository.BookingRepository,
	tableRepo repository.TableRepository,
	availability *AvailabilityService,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		logger:       logger,
		cfg:          cfg,
		repo:         repo,
		tables:       tableRepo,
		availability: availability,
		notifier:     notifier,
	}
}

// CreateBooking resolves a table, reserves it atomically and queues the notices.
func (bs *BookingService) CreateBooking(ctx context.Context, req *structs.BookingRequest) (*tables.Booking, error) {
	date, err := lib.NormalizeDate(req.BookingDate)
	if err != nil {
		return nil, lib.NewValidationError("booking_date", "must be a valid date (YYYY-MM-DD)")
	}
	clock, err := lib.NormalizeClock(req.BookingTime)
	if err != nil {
		return nil, lib.NewValidationError("booking_time", "must be a time in HH:MM (24-hour) format")
	}
	start, err := lib.BookingStart(date, clock)
	if err != nil {
		return nil, lib.NewValidationError("booking_date", "must be a valid date (YYYY-MM-DD)")
	}

	tableId, err := bs.resolveTable(ctx, req, start)
	if err != nil {
		BookingsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	booking, err := bs.repo.ReserveTable(ctx, &tables.Booking{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		BookingDate:     date,
		BookingTime:     clock,
		StartsAt:        start,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		TableId:         tableId,
		Status:          tables.BookingStatusPending,
	})
	if err != nil {
		if errors.Is(err, lib.ErrTableUnavailable) {
			BookingsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		if errors.Is(err, lib.ErrInvalidReference) {
			BookingsTotal.WithLabelValues("rejected").Inc()
			return nil, lib.NewValidationError("table_id", "does not reference an existing table")
		}
		BookingsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to reserve table %d: %w", tableId, err)
	}
	BookingsTotal.WithLabelValues("created").Inc()

	bs.logger.Info("Booking created",
		gecho.Field("booking_id", booking.Id),
		gecho.Field("table_id", booking.TableId),
		gecho.Field("starts_at", booking.StartsAt),
	)

	bs.notifyCreated(booking)
	return booking, nil
}

// resolveTable validates an explicit table or auto-assigns the smallest free one.
func (bs *BookingService) resolveTable(ctx context.Context, req *structs.BookingRequest, start time.Time) (int64, error) {
	if req.TableId.Set {
		table, err := bs.tables.GetTable(ctx, req.TableId.Value)
		if err != nil {
			if lib.IsNotFound(err) {
				return 0, lib.NewValidationError("table_id", "does not reference an existing table")
			}
			return 0, err
		}
		if !table.IsAvailable {
			return 0, lib.ErrTableUnavailable
		}
		if table.Capacity < req.PartySize {
			return 0, lib.ErrTableTooSmall
		}
		return table.Id, nil
	}

	free, err := bs.availability.AvailableTables(ctx, start, req.PartySize)
	if err != nil {
		return 0, err
	}
	if len(free) == 0 {
		return 0, lib.ErrNoTableAvailable
	}
	return free[0].Id, nil
}

func (bs *BookingService) notifyCreated(b *tables.Booking) {
	emails, err := RenderBookingNotices(bs.cfg.Email, b)
	if err != nil {
		bs.logger.Error("Failed to render booking notices", gecho.Field("booking_id", b.Id), gecho.Field("error", err))
	}

	bs.notifier.Submit(Notification{
		Kind:   "booking",
		Emails: emails,
		Event:  NewEvent(EventBookingCreated, b),
	})
}

func (bs *BookingService) ListBookings(ctx context.Context, opts structs.BookingListOptions) ([]tables.Booking, error) {
	return bs.repo.ListBookings(ctx, opts)
}

func (bs *BookingService) GetBooking(ctx context.Context, id int64) (*tables.Booking, error) {
	return bs.repo.GetBooking(ctx, id)
}

// UpdateStatus applies one booking state transition. Setting the current status
// again succeeds without a write.
func (bs *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (*tables.Booking, error) {
	next, ok := tables.ParseBookingStatus(status)
	if !ok {
		return nil, lib.NewValidationError("status", "must be one of: pending confirmed cancelled completed")
	}

	current, err := bs.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: booking is %s and cannot become %s", lib.ErrInvalidTransition, current.Status, next)
	}

	updated, err := bs.repo.UpdateBookingStatus(ctx, id, current.Status, next)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, fmt.Errorf("%w: booking status changed concurrently", lib.ErrInvalidTransition)
		}
		return nil, err
	}

	if current.Status != next {
		bs.logger.Info("Booking status changed",
			gecho.Field("booking_id", id),
			gecho.Field("from", current.Status),
			gecho.Field("to", next),
		)
		bs.notifier.Submit(Notification{
			Kind: "booking_status",
			Event: NewEvent(EventBookingStatusChanged, map[string]any{
				"booking_id": id,
				"from":       current.Status,
				"to":         next,
			}),
		})
	}
	return updated, nil
}

// Cancel soft-deletes a booking by moving it to cancelled.
func (bs *BookingService) Cancel(ctx context.Context, id int64) (*tables.Booking, error) {
	return bs.UpdateStatus(ctx, id, string(tables.BookingStatusCancelled))
}
