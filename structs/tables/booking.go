package tables

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions lists the moves allowed out of each non-terminal state.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether s may move to next. Re-applying the current
// status is allowed and changes nothing.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	return slices.Contains(bookingTransitions[s], next)
}

// IsActive reports whether a booking in this state occupies its table.
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCancelled
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	Id              int64         `bun:"id,pk,autoincrement" json:"id"`
	UserId          *uuid.UUID    `bun:"user_id,type:uuid" json:"user_id"`
	GuestName       string        `bun:"guest_name,notnull" json:"guest_name"`
	GuestEmail      string        `bun:"guest_email,notnull" json:"guest_email"`
	GuestPhone      string        `bun:"guest_phone" json:"guest_phone,omitempty"`
	BookingDate     string        `bun:"booking_date,notnull" json:"booking_date"`
	BookingTime     string        `bun:"booking_time,notnull" json:"booking_time"`
	StartsAt        time.Time     `bun:"starts_at,notnull" json:"starts_at"`
	PartySize       int           `bun:"party_size,notnull" json:"party_size"`
	SpecialRequests string        `bun:"special_requests" json:"special_requests,omitempty"`
	TableId         int64         `bun:"table_id,notnull" json:"table_id"`
	Status          BookingStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt       time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Table *RestaurantTable `bun:"rel:belongs-to,join:table_id=id" json:"restaurant_tables,omitempty"`
}
