package bookings

import (
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type BookingRoutesManager struct {
	logger         *gecho.Logger
	bookingService *services.BookingService
}

func NewBookingRoutesManager(logger *gecho.Logger, bookingService *services.BookingService) *BookingRoutesManager {
	return &BookingRoutesManager{
		logger:         logger,
		bookingService: bookingService,
	}
}

func (brm *BookingRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", brm.CreateBooking)
		r.Get("/", brm.ListBookings)
		r.Get("/{id}", brm.GetBooking)
		r.Patch("/{id}/status", brm.UpdateStatus)
		r.Delete("/{id}", brm.CancelBooking)
	})
}
