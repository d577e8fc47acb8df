package lib

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in, want string
		wantErr  bool
	}{
		{"2025-06-01", "2025-06-01", false},
		{" 2025-06-01 ", "2025-06-01", false},
		{"2025-06-01T00:00:00Z", "2025-06-01", false},
		{"2025-06-01T00:00:00.000Z", "2025-06-01", false},
		{"2025-06-01T19:00", "2025-06-01", false},
		{"2025-02-29", "", true},
		{"01/06/2025", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeDate(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("NormalizeDate(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in, want string
		wantErr  bool
	}{
		{"19:00", "19:00", false},
		{"9:05", "09:05", false},
		{"00:00", "00:00", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"7pm", "", true},
		{"19:00:00", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeClock(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("NormalizeClock(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestBookingStartCrossesMidnight(t *testing.T) {
	late, err := BookingStart("2025-06-01", "23:30")
	if err != nil {
		t.Fatalf("BookingStart: %v", err)
	}
	early, err := BookingStart("2025-06-02T00:00:00Z", "0:15")
	if err != nil {
		t.Fatalf("BookingStart: %v", err)
	}

	if d := early.Sub(late); d != 45*time.Minute {
		t.Fatalf("distance = %s, want 45m", d)
	}
	if late.Location() != time.UTC {
		t.Fatalf("location = %s, want UTC", late.Location())
	}
}

func TestFormatOrderNumber(t *testing.T) {
	if got := FormatOrderNumber(42); got != "ORD-000042" {
		t.Fatalf("FormatOrderNumber(42) = %q", got)
	}
}
