package lib

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// NormalizeDate reduces "2025-06-01" or an RFC 3339 timestamp to a plain calendar date.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Format(DateLayout), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.Format(DateLayout), nil
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		if d, err := time.Parse(DateLayout, s[:i]); err == nil {
			return d.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// NormalizeClock zero-pads a 24-hour "H:MM" value to "HH:MM".
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !clockPattern.MatchString(s) {
		return "", fmt.Errorf("invalid time %q", s)
	}
	t, err := time.Parse("15:04", zeroPad(s))
	if err != nil {
		return "", err
	}
	return t.Format(ClockLayout), nil
}

func zeroPad(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}

// BookingStart combines a calendar date and a wall-clock time into one timestamp.
// Restaurant-local wall time is carried in UTC so arithmetic never shifts it.
func BookingStart(date, clock string) (time.Time, error) {
	d, err := NormalizeDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := NormalizeClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(DateLayout+" "+ClockLayout, d+" "+c, time.UTC)
}
