package structs

type BookingRequest struct {
	GuestName       string     `json:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail      string     `json:"guest_email" validate:"required,email"`
	GuestPhone      string     `json:"guest_phone" validate:"max=30"`
	BookingDate     string     `json:"booking_date" validate:"required,calendardate"`
	BookingTime     string     `json:"booking_time" validate:"required,hhmm"`
	PartySize       int        `json:"party_size" validate:"required,min=1,max=20"`
	SpecialRequests string     `json:"special_requests" validate:"max=500"`
	TableId         OptionalID `json:"table_id"`
}

type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type BookingListOptions struct {
	Date   string
	Status string
	Email  string
}

type AvailabilityQuery struct {
	Date      string `json:"date" validate:"required,calendardate"`
	Time      string `json:"time" validate:"required,hhmm"`
	PartySize int    `json:"party_size" validate:"required,min=1,max=20"`
}
