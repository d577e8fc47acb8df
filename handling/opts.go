package handling

import (
	"net/http"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParseID reads a positive integer URL parameter.
func ParseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, lib.NewValidationError(param, "must be a positive integer")
	}
	return id, nil
}

func ParseBookingListOptions(r *http.Request) (structs.BookingListOptions, error) {
	query := r.URL.Query()
	opts := structs.BookingListOptions{
		Email: strings.TrimSpace(query.Get("email")),
	}

	if date := query.Get("date"); date != "" {
		d, err := lib.NormalizeDate(date)
		if err != nil {
			return opts, lib.NewValidationError("date", "must be a valid date (YYYY-MM-DD)")
		}
		opts.Date = d
	}

	if status := query.Get("status"); status != "" {
		if _, ok := tables.ParseBookingStatus(status); !ok {
			return opts, lib.NewValidationError("status", "must be one of: pending confirmed cancelled completed")
		}
		opts.Status = status
	}

	return opts, nil
}

func ParseTableFilter(r *http.Request) (repository.TableFilter, error) {
	query := r.URL.Query()
	filter := repository.TableFilter{
		Location: strings.TrimSpace(query.Get("location")),
	}

	if capacity := query.Get("capacity"); capacity != "" {
		n, err := strconv.Atoi(capacity)
		if err != nil || n < 1 {
			return filter, lib.NewValidationError("capacity", "must be a positive integer")
		}
		filter.MinCapacity = n
	}

	if availableOnly := query.Get("available_only"); availableOnly != "" {
		b, err := strconv.ParseBool(availableOnly)
		if err != nil {
			return filter, lib.NewValidationError("available_only", "must be true or false")
		}
		filter.AvailableOnly = b
	}

	return filter, nil
}

func ParseAvailabilityQuery(r *http.Request) (*structs.AvailabilityQuery, error) {
	query := r.URL.Query()
	q := &structs.AvailabilityQuery{
		Date: query.Get("date"),
		Time: query.Get("time"),
	}

	if partySize := query.Get("party_size"); partySize != "" {
		n, err := strconv.Atoi(partySize)
		if err != nil {
			return nil, lib.NewValidationError("party_size", "must be an integer")
		}
		q.PartySize = n
	}

	if err := lib.ValidateStruct(q); err != nil {
		return nil, err
	}
	return q, nil
}

func ParseContactListOptions(r *http.Request) (structs.ContactListOptions, error) {
	query := r.URL.Query()
	var opts structs.ContactListOptions
	var err error

	if page := query.Get("page"); page != "" {
		if opts.Page, err = strconv.Atoi(page); err != nil {
			return opts, lib.NewValidationError("page", "must be an integer")
		}
	}

	if limit := query.Get("limit"); limit != "" {
		if opts.Limit, err = strconv.Atoi(limit); err != nil {
			return opts, lib.NewValidationError("limit", "must be an integer")
		}
	}

	if isRead := query.Get("is_read"); isRead != "" {
		b, err := strconv.ParseBool(isRead)
		if err != nil {
			return opts, lib.NewValidationError("is_read", "must be true or false")
		}
		opts.IsRead = &b
	}

	return opts, nil
}

func ParseOrderListOptions(r *http.Request) (structs.OrderListOptions, error) {
	query := r.URL.Query()
	opts := structs.OrderListOptions{Limit: 20}
	var err error

	if status := query.Get("status"); status != "" {
		if _, ok := tables.ParseOrderStatus(status); !ok {
			return opts, lib.NewValidationError("status", "must be one of: pending confirmed preparing ready delivered cancelled")
		}
		opts.Status = status
	}

	if limit := query.Get("limit"); limit != "" {
		if opts.Limit, err = strconv.Atoi(limit); err != nil || opts.Limit < 1 {
			return opts, lib.NewValidationError("limit", "must be a positive integer")
		}
		opts.Limit = min(opts.Limit, 100)
	}

	if offset := query.Get("offset"); offset != "" {
		if opts.Offset, err = strconv.Atoi(offset); err != nil || opts.Offset < 0 {
			return opts, lib.NewValidationError("offset", "must be a non-negative integer")
		}
	}

	return opts, nil
}
