package schedule

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

func TestIsISOTimestamp(t *testing.T) {
	assert.True(t, IsISOTimestamp("2025-06-23T12:00:00+02:00"))
	assert.True(t, IsISOTimestamp("2025-06-23T19"))
	assert.False(t, IsISOTimestamp("Tuesday, June 24, 2025"))
	assert.False(t, IsISOTimestamp("2025-06-23"))
	assert.False(t, IsISOTimestamp("Tue"))
	assert.False(t, IsISOTimestamp(""))
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		want      int
		defaulted bool
	}{
		{name: "iso timestamp", date: "2025-06-23T12:00:00+02:00", want: 0},
		{name: "iso negative offset", date: "2025-06-24T12:00:00-05:00", want: 1},
		{name: "bare date", date: "2025-06-28", want: 5},
		{name: "human readable", date: "Tuesday, June 24, 2025", want: 1},
		{name: "human readable abbreviated", date: "Sun, Jun 29, 2025", want: 6},
		{name: "weekday mismatch uses calendar", date: "Friday, June 24, 2025", want: 1},
		{name: "unknown weekday segment", date: "Someday, June 26, 2025", want: 3},
		{name: "month day year", date: "June 27, 2025", want: 4},
		{name: "weekday only", date: "Wednesday", want: 2},
		{name: "weekday token with junk", date: "thu at noon", want: 3},
		{name: "unparseable", date: "next week", want: DefaultWeekday, defaulted: true},
		{name: "empty", date: "", want: DefaultWeekday, defaulted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.date, "19:00")
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Weekday)
			assert.Equal(t, tt.defaulted, spec.DateDefaulted)
		})
	}
}

func TestParseTimes(t *testing.T) {
	tests := []struct {
		name      string
		time      string
		want      int
		defaulted bool
	}{
		{name: "iso timestamp", time: "2025-06-23T19:30:00+02:00", want: 19},
		{name: "iso negative offset", time: "2025-06-23T10:00:00-05:00", want: 10},
		{name: "iso utc", time: "2025-06-23T12:00:00Z", want: 12},
		{name: "pm", time: "7 PM", want: 19},
		{name: "pm with minutes", time: "7:30pm", want: 19},
		{name: "noon", time: "12 PM", want: 12},
		{name: "am", time: "11:00 am", want: 11},
		{name: "dotted", time: "8 p.m.", want: 20},
		{name: "colon", time: "19:00", want: 19},
		{name: "colon with seconds", time: "13:45:00", want: 13},
		{name: "bare integer", time: "20", want: 20},
		{name: "unparseable", time: "dinner time", want: DefaultHour, defaulted: true},
		{name: "empty", time: "", want: DefaultHour, defaulted: true},
		{name: "24-hour with meridiem", time: "13 PM", want: 13},
		{name: "bad minutes", time: "19:75", want: DefaultHour, defaulted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse("2025-06-23", tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Hour)
			assert.Equal(t, tt.defaulted, spec.TimeDefaulted)
		})
	}
}

func TestParseRejectsHoursOutsideWindow(t *testing.T) {
	tests := []struct {
		time     string
		hour     int
		tooEarly bool
	}{
		{time: "12 AM", hour: 0, tooEarly: true},
		{time: "8:30 am", hour: 8, tooEarly: true},
		{time: "2025-06-23T07:00:00+02:00", hour: 7, tooEarly: true},
		{time: "22:00", hour: 22},
		{time: "11 PM", hour: 23},
		{time: "24", hour: 24},
		{time: "25", hour: 25},
		{time: "25:00", hour: 25},
		{time: "23 PM", hour: 23},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			spec, err := Parse("Monday", tt.time)
			var hoursErr *HoursError
			require.True(t, errors.As(err, &hoursErr))
			assert.Equal(t, tt.hour, hoursErr.Hour)
			assert.Equal(t, tt.tooEarly, hoursErr.TooEarly)
			assert.Equal(t, tt.hour, spec.Hour)
			assert.False(t, spec.TimeDefaulted)
		})
	}
}

func TestParseBookingExample(t *testing.T) {
	spec, err := Parse("2025-06-23T12:00:00+02:00", "19:00")
	require.NoError(t, err)
	assert.Equal(t, Spec{Weekday: 0, Hour: 19}, spec)
}

func TestParserLogsWeekdayMismatch(t *testing.T) {
	var buf bytes.Buffer
	p := Parser{Logger: logging.NewWithWriter("debug", &buf)}

	spec, err := p.Parse("Friday, June 24, 2025", "18:00")
	require.NoError(t, err)
	assert.Equal(t, 1, spec.Weekday)
	assert.Contains(t, buf.String(), "weekday name disagrees with calendar date")
	assert.Contains(t, buf.String(), `"computed":"Tuesday"`)

	buf.Reset()
	_, err = p.Parse("Tuesday, June 24, 2025", "18:00")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
