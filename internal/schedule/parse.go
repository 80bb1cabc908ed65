package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

const (
	isoDateLayout = "2006-01-02"
	displayLayout = "Monday, January 2, 2006"
)

var humanLayouts = []string{
	displayLayout,
	"Monday, Jan 2, 2006",
	"Mon, January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday January 2, 2006",
	"Monday January 2 2006",
}

var monthLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// Spec is a resolved weekday (Monday=0) and hour of day. The Defaulted flags
// mark a field that fell back to DefaultWeekday or DefaultHour.
type Spec struct {
	Weekday       int
	Hour          int
	DateDefaulted bool
	TimeDefaulted bool
}

// Parser resolves date and time slots. The zero value is ready to use.
type Parser struct {
	// Logger receives debug notes about inconsistent input. Optional.
	Logger *logging.Logger
}

// Parse resolves slots with a zero Parser.
func Parse(dateSlot, timeSlot string) (Spec, error) {
	return Parser{}.Parse(dateSlot, timeSlot)
}

// IsISOTimestamp reports whether s starts with YYYY-MM-DDTHH. The check is
// positional so weekday names containing a "T" do not match.
func IsISOTimestamp(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 13 && s[4] == '-' && s[7] == '-' && s[10] == 'T'
}

// Parse resolves the slots. Unparseable values fall back to the defaults and
// are flagged; an hour outside the booking window returns a *HoursError.
func (p Parser) Parse(dateSlot, timeSlot string) (Spec, error) {
	spec := Spec{Weekday: DefaultWeekday, Hour: DefaultHour}

	if wd, ok := p.weekday(dateSlot); ok {
		spec.Weekday = wd
	} else {
		spec.DateDefaulted = true
	}

	if hour, _, ok := clock(timeSlot); ok {
		if err := CheckHours(hour); err != nil {
			spec.Hour = hour
			return spec, err
		}
		spec.Hour = hour
	} else {
		spec.TimeDefaulted = true
	}

	if spec.Weekday < 0 || spec.Weekday > 6 || spec.Hour < 0 || spec.Hour > 23 {
		spec.Weekday, spec.Hour = DefaultWeekday, DefaultHour
	}
	return spec, nil
}

func (p Parser) weekday(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if t, ok := calendarDate(s); ok {
		return weekdayOf(t), true
	}
	if t, ok := parseLayouts(s, humanLayouts); ok {
		computed := weekdayOf(t)
		if stated, known := lookupWeekday(strings.Fields(s)[0]); known && stated != computed && p.Logger != nil {
			p.Logger.Debug("weekday name disagrees with calendar date",
				"input", s,
				"stated", WeekdayNames[stated],
				"computed", WeekdayNames[computed],
			)
		}
		return computed, true
	}
	if _, rest, found := strings.Cut(s, ","); found {
		if t, ok := parseLayouts(strings.TrimSpace(rest), monthLayouts); ok {
			return weekdayOf(t), true
		}
	}
	if t, ok := parseLayouts(s, monthLayouts); ok {
		return weekdayOf(t), true
	}
	return lookupWeekday(strings.Fields(s)[0])
}

// calendarDate handles ISO timestamps and bare YYYY-MM-DD dates.
func calendarDate(s string) (time.Time, bool) {
	switch {
	case IsISOTimestamp(s):
		t, err := time.Parse(isoDateLayout, s[:10])
		return t, err == nil
	case len(s) == len(isoDateLayout):
		t, err := time.Parse(isoDateLayout, s)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clock extracts hour and minute from an ISO timestamp, a 12-hour string, an
// HH:MM string or a bare hour.
func clock(raw string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, false
	}
	if IsISOTimestamp(s) {
		rest := s[11:]
		if i := strings.IndexAny(rest, "+-Zz"); i >= 0 {
			rest = rest[:i]
		}
		return hourMinute(rest)
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "am") || strings.Contains(lower, "pm") ||
		strings.Contains(lower, "a.m.") || strings.Contains(lower, "p.m.") {
		pm := strings.Contains(lower, "pm") || strings.Contains(lower, "p.m.")
		for _, marker := range []string{"a.m.", "p.m.", "am", "pm"} {
			lower = strings.ReplaceAll(lower, marker, "")
		}
		lower = strings.ReplaceAll(strings.TrimSpace(lower), ".", ":")
		h, m, ok := hourMinute(lower)
		if !ok {
			return 0, 0, false
		}
		// "13 PM" and friends are already on a 24-hour clock.
		switch {
		case h > 12:
		case h == 12 && !pm:
			h = 0
		case h != 12 && pm:
			h += 12
		}
		return h, m, true
	}

	return hourMinute(s)
}

// hourMinute parses "H", "H:MM" or "H:MM:SS". The hour is not bounded here;
// CheckHours rejects anything outside the booking window.
func hourMinute(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 {
		return 0, 0, false
	}
	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || m < 0 || m > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}
