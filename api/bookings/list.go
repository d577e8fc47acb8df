package bookings

import (
	"net/http"
	"restoran_server/handling"

	"github.com/MonkyMars/gecho"
)

func (brm *BookingRoutesManager) ListBookings(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseBookingListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", brm.logger, w)
		return
	}

	bookings, err := brm.bookingService.ListBookings(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch bookings", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bookings),
		gecho.Send(),
	)
}

func (brm *BookingRoutesManager) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid booking id", brm.logger, w)
		return
	}

	booking, err := brm.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch booking", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(booking),
		gecho.Send(),
	)
}
