package bookings

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

func (brm *BookingRoutesManager) CreateBooking(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BookingRequest](r)
	if err != nil {
		brm.logger.Debug("Rejected booking request", gecho.Field("error", err))
		handling.HandleError(err, "Invalid booking request", brm.logger, w)
		return
	}

	booking, err := brm.bookingService.CreateBooking(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to create booking", brm.logger, w)
		return
	}

	gecho.Created(w,
		gecho.WithMessage("Booking created successfully"),
		gecho.WithData(booking),
		gecho.Send(),
	)
}
