package bookings

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

func (brm *BookingRoutesManager) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid booking id", brm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.BookingStatusRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid status", brm.logger, w)
		return
	}

	booking, err := brm.bookingService.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		handling.HandleError(err, "Failed to update booking status", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Booking status updated"),
		gecho.WithData(booking),
		gecho.Send(),
	)
}

// CancelBooking keeps the row and moves it to cancelled.
func (brm *BookingRoutesManager) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid booking id", brm.logger, w)
		return
	}

	booking, err := brm.bookingService.Cancel(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to cancel booking", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Booking cancelled successfully"),
		gecho.WithData(booking),
		gecho.Send(),
	)
}
