package tables

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"

	"github.com/MonkyMars/gecho"
)

func (trm *TableRoutesManager) ListTables(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseTableFilter(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", trm.logger, w)
		return
	}

	tables, err := trm.tableService.ListTables(r.Context(), filter)
	if err != nil {
		handling.HandleError(err, "Failed to fetch tables", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(tables),
		gecho.Send(),
	)
}

// AvailableTables answers ?date=YYYY-MM-DD&time=HH:MM&party_size=N.
func (trm *TableRoutesManager) AvailableTables(w http.ResponseWriter, r *http.Request) {
	q, err := handling.ParseAvailabilityQuery(r)
	if err != nil {
		handling.HandleError(err, "Invalid availability query", trm.logger, w)
		return
	}

	tables, err := trm.availabilityService.Check(r.Context(), q.Date, q.Time, q.PartySize)
	if err != nil {
		handling.HandleError(err, "Failed to check availability", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(tables),
		gecho.Send(),
	)
}

func (trm *TableRoutesManager) GetTable(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	table, err := trm.tableService.GetTable(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch table", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(table),
		gecho.Send(),
	)
}

func (trm *TableRoutesManager) TableBookings(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid table id", trm.logger, w)
		return
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		if date, err = lib.NormalizeDate(date); err != nil {
			handling.HandleError(lib.NewValidationError("date", "must be a valid date (YYYY-MM-DD)"), "Invalid date", trm.logger, w)
			return
		}
	}

	bookings, err := trm.tableService.TableBookings(r.Context(), id, date)
	if err != nil {
		handling.HandleError(err, "Failed to fetch table bookings", trm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(bookings),
		gecho.Send(),
	)
}
