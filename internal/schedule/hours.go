// Package schedule resolves date and time slots into a weekday and hour of
// day, enforces the booking window, and renders them back for display.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	// OpeningHour is the first hour that can be booked.
	OpeningHour = 9
	// LastBookingHour is the last hour that can be booked.
	LastBookingHour = 21

	// DefaultWeekday (Saturday) and DefaultHour (7 PM) stand in for slots that
	// could not be parsed.
	DefaultWeekday = 5
	DefaultHour    = 19
)

// WeekdayNames are indexed Monday=0 .. Sunday=6.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdayLookup = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1, "tues": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3, "thur": 3, "thurs": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// WeekdayIndex maps a weekday name or abbreviation to Monday=0 .. Sunday=6.
// Unrecognized names map to DefaultWeekday.
func WeekdayIndex(name string) int {
	if idx, ok := lookupWeekday(name); ok {
		return idx
	}
	return DefaultWeekday
}

func lookupWeekday(name string) (int, bool) {
	key := strings.Trim(strings.ToLower(strings.TrimSpace(name)), ",.")
	idx, ok := weekdayLookup[key]
	return idx, ok
}

func weekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// HoursError reports a requested hour outside the booking window.
type HoursError struct {
	Hour     int
	TooEarly bool
}

func (e *HoursError) Error() string {
	if e.TooEarly {
		return fmt.Sprintf("%s is before opening time; reservations are available from %s to %s",
			FormatHour(e.Hour), FormatHour(OpeningHour), FormatHour(LastBookingHour))
	}
	return fmt.Sprintf("%s is after closing; the last reservation we accept is at %s",
		FormatHour(e.Hour), FormatHour(LastBookingHour))
}

// CheckHours returns nil when hour is inside OpeningHour..LastBookingHour.
func CheckHours(hour int) error {
	switch {
	case hour < OpeningHour:
		return &HoursError{Hour: hour, TooEarly: true}
	case hour > LastBookingHour:
		return &HoursError{Hour: hour}
	default:
		return nil
	}
}
