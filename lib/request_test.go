package lib

import (
	"errors"
	"net/http/httptest"
	"restoran_server/structs"
	"strings"
	"testing"
)

func decodeBooking(t *testing.T, body string) (*structs.BookingRequest, error) {
	t.Helper()
	r := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))
	return ExtractAndValidateBody[structs.BookingRequest](r)
}

func firstField(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	return ve.Errors[0].Field
}

func TestBookingRequestValidation(t *testing.T) {
	const valid = `"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"19:00"`

	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"minimal", `{` + valid + `,"party_size":4}`, ""},
		{"single digit hour", `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"9:05","party_size":2}`, ""},
		{"party of twenty", `{` + valid + `,"party_size":20}`, ""},
		{"party of zero", `{` + valid + `,"party_size":0}`, "party_size"},
		{"party of twenty one", `{` + valid + `,"party_size":21}`, "party_size"},
		{"hour 24", `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"24:00","party_size":2}`, "booking_time"},
		{"bad minutes", `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"19:60","party_size":2}`, "booking_time"},
		{"impossible date", `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-02-30","booking_time":"19:00","party_size":2}`, "booking_date"},
		{"bad email", `{"guest_name":"Ann","guest_email":"ann","booking_date":"2025-06-01","booking_time":"19:00","party_size":2}`, "guest_email"},
		{"short name", `{"guest_name":"A","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"19:00","party_size":2}`, "guest_name"},
		{"unknown field", `{` + valid + `,"party_size":2,"vip":true}`, "vip"},
		{"wrong type", `{` + valid + `,"party_size":"four"}`, "party_size"},
		{"empty body", ``, "body"},
		{"table id number", `{` + valid + `,"party_size":2,"table_id":3}`, ""},
		{"table id string", `{` + valid + `,"party_size":2,"table_id":"3"}`, ""},
		{"table id empty", `{` + valid + `,"party_size":2,"table_id":""}`, ""},
		{"table id null", `{` + valid + `,"party_size":2,"table_id":null}`, ""},
		{"table id zero", `{` + valid + `,"party_size":2,"table_id":0}`, "table_id"},
		{"table id word", `{` + valid + `,"party_size":2,"table_id":"abc"}`, "table_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeBooking(t, tc.body)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := firstField(t, err); got != tc.wantField {
				t.Fatalf("field = %q, want %q (%v)", got, tc.wantField, err)
			}
		})
	}
}

func TestBookingRequestTableIdForms(t *testing.T) {
	cases := map[string]structs.OptionalID{
		`3`:    {Value: 3, Set: true},
		`"12"`: {Value: 12, Set: true},
		`""`:   {},
		`null`: {},
	}

	for raw, want := range cases {
		req, err := decodeBooking(t, `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"19:00","party_size":2,"table_id":`+raw+`}`)
		if err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if req.TableId != want {
			t.Fatalf("%s: got %+v, want %+v", raw, req.TableId, want)
		}
	}
}

func TestContactMessageLength(t *testing.T) {
	cases := []struct {
		message string
		wantErr bool
	}{
		{"123456789", true},
		{"1234567890", false},
		{strings.Repeat("x", 1000), false},
		{strings.Repeat("x", 1001), true},
	}

	for _, tc := range cases {
		err := ValidateStruct(&structs.ContactRequest{Name: "Ann", Email: "ann@x.com", Message: tc.message})
		if (err != nil) != tc.wantErr {
			t.Fatalf("len %d: err = %v, wantErr %v", len(tc.message), err, tc.wantErr)
		}
		if err != nil && firstField(t, err) != "message" {
			t.Fatalf("len %d: wrong field in %v", len(tc.message), err)
		}
	}
}

func TestNestedFieldNames(t *testing.T) {
	err := ValidateStruct(&structs.OrderRequest{
		CustomerName:  "Ann",
		CustomerEmail: "ann@x.com",
		CustomerPhone: "555",
		Items:         []structs.OrderItemRequest{{MenuItemId: 1, Quantity: 0}},
	})
	if got := firstField(t, err); got != "items[0].quantity" {
		t.Fatalf("field = %q, want items[0].quantity", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("party_size", "must be at most 20")
	if err.Error() != "party_size must be at most 20" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if (&ValidationError{}).Error() != "validation failed" {
		t.Fatal("empty validation error message")
	}
}
