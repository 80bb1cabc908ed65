package schedule

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders a date slot as "Monday, January 2, 2006". Input that
// cannot be parsed is returned unchanged.
func FormatDate(slot string) string {
	s := strings.TrimSpace(slot)
	if t, ok := calendarDate(s); ok {
		return t.Format(displayLayout)
	}
	if t, ok := parseLayouts(s, humanLayouts); ok {
		return t.Format(displayLayout)
	}
	if t, ok := parseLayouts(s, monthLayouts); ok {
		return t.Format(displayLayout)
	}
	return slot
}

// FormatTime renders a time slot as a 12-hour clock, e.g. "7:00 PM". Input
// that cannot be parsed is returned unchanged.
func FormatTime(slot string) string {
	h, m, ok := clock(slot)
	if !ok || h > 23 {
		return slot
	}
	return formatClock(h, m)
}

// FormatHour renders a whole hour, e.g. FormatHour(0) == "12:00 AM". Hours
// that are not on the clock are shown as given, e.g. "25:00".
func FormatHour(hour int) string {
	if hour < 0 || hour > 23 {
		return fmt.Sprintf("%d:00", hour)
	}
	return formatClock(hour, 0)
}

// FormatWeekday returns the weekday name for an index, or "" when out of range.
func FormatWeekday(idx int) string {
	if idx < 0 || idx > 6 {
		return ""
	}
	return WeekdayNames[idx]
}

// HourToISO builds a timestamp on a fixed reference date for the given clock time.
func HourToISO(hour, minute int) string {
	return fmt.Sprintf("1970-01-01T%02d:%02d:00", hour, minute)
}

// DateOf is FormatDate for a time value.
func DateOf(t time.Time) string {
	return t.Format(displayLayout)
}

func formatClock(h, m int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
