package schedule

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIndex(t *testing.T) {
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for want, name := range names {
		assert.Equal(t, want, WeekdayIndex(name), name)
		assert.Equal(t, want, WeekdayIndex(strings.ToUpper(name)), name)
		assert.Equal(t, want, WeekdayIndex(name[:3]), name[:3])
		assert.Equal(t, want, WeekdayIndex(strings.ToUpper(name[:1])+name[1:3]), name[:3])
	}
	assert.Equal(t, 1, WeekdayIndex("Tues"))
	assert.Equal(t, 3, WeekdayIndex("thurs"))
	assert.Equal(t, 0, WeekdayIndex(" Monday, "))

	for _, junk := range []string{"", "someday", "mo", "2025-06-23"} {
		assert.Equal(t, DefaultWeekday, WeekdayIndex(junk), junk)
	}
}

func TestCheckHours(t *testing.T) {
	for h := OpeningHour; h <= LastBookingHour; h++ {
		assert.NoError(t, CheckHours(h), "hour %d", h)
	}

	for _, h := range []int{0, 1, 5, 8} {
		err := CheckHours(h)
		var hoursErr *HoursError
		require.True(t, errors.As(err, &hoursErr), "hour %d", h)
		assert.True(t, hoursErr.TooEarly)
		assert.Contains(t, err.Error(), "before opening")
	}

	for _, h := range []int{22, 23} {
		err := CheckHours(h)
		var hoursErr *HoursError
		require.True(t, errors.As(err, &hoursErr), "hour %d", h)
		assert.False(t, hoursErr.TooEarly)
		assert.Contains(t, err.Error(), "after closing")
	}
}

func TestHoursErrorMessageRendersClock(t *testing.T) {
	assert.Contains(t, CheckHours(8).Error(), "8:00 AM")
	assert.Contains(t, CheckHours(8).Error(), "9:00 AM")
	assert.Contains(t, CheckHours(23).Error(), "11:00 PM")
	assert.Contains(t, CheckHours(23).Error(), "9:00 PM")
}
