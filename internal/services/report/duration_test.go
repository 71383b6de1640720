package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration_AllUnitsLongForm(t *testing.T) {
	c := ParseDuration("3 days 2 hours 30 minutes 53 seconds")

	assert.Equal(t, 3, c.Days)
	assert.Equal(t, 2, c.Hours)
	assert.Equal(t, 30, c.Minutes)
	assert.Equal(t, 53, c.Seconds)
}

func TestParseDuration_AbbreviatedForms(t *testing.T) {
	c := ParseDuration("2 hrs 5 mins 10 secs")

	assert.Equal(t, 0, c.Days)
	assert.Equal(t, 2, c.Hours)
	assert.Equal(t, 5, c.Minutes)
	assert.Equal(t, 10, c.Seconds)
}

func TestParseDuration_MissingUnitsAreZero(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Components
	}{
		{"seconds only", "45 seconds", Components{Seconds: 45}},
		{"minutes and seconds", "45 minutes 10 seconds", Components{Minutes: 45, Seconds: 10}},
		{"single hour", "1 hour", Components{Hours: 1}},
		{"singular units", "1 day 1 hr 1 min 1 sec", Components{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"empty string", "", Components{}},
		{"no units at all", "unavailable", Components{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.text))
		})
	}
}

func TestParseDuration_FirstOccurrenceWins(t *testing.T) {
	c := ParseDuration("5 minutes then another 7 minutes")

	assert.Equal(t, 5, c.Minutes)
}

func TestParseDuration_IgnoresUnknownTokens(t *testing.T) {
	c := ParseDuration("took 2 hours over 3 volumes")

	assert.Equal(t, 2, c.Hours)
	assert.Equal(t, 0, c.Minutes)
}

func TestToMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"full set", "3 days 2 hours 30 minutes 53 seconds", 3*1440 + 2*60 + 30 + 53.0/60},
		{"hours only", "2 hours", 120},
		{"seconds only", "30 seconds", 0.5},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDuration(tt.text).ToMinutes(), 1e-9)
		})
	}
}

func TestToMinutes_FromComponents(t *testing.T) {
	// The Minutes field (unit component) and the ToMinutes conversion are
	// distinct things and must stay usable side by side.
	c := Components{Days: 1, Hours: 2, Minutes: 3, Seconds: 30}

	assert.Equal(t, 3, c.Minutes)
	assert.InDelta(t, 1440+120+3+0.5, c.ToMinutes(), 1e-9)
}

func TestClock_DaysFoldIntoHours(t *testing.T) {
	assert.Equal(t, "74:30:53", ParseDuration("3 days 2 hours 30 minutes 53 seconds").Clock())
}

func TestClock_ZeroPadding(t *testing.T) {
	assert.Equal(t, "00:45:10", ParseDuration("45 minutes 10 seconds").Clock())
	assert.Equal(t, "07:05:09", ParseDuration("7 hours 5 minutes 9 seconds").Clock())
}

func TestClock_HoursNotCappedAt24(t *testing.T) {
	// An elapsed time, not a wall-clock time: 30 hours stays 30 hours.
	assert.Equal(t, "30:00:00", ParseDuration("1 day 6 hours").Clock())
}

func TestSubtract_NoBorrow(t *testing.T) {
	total := ParseDuration("1 hour 30 minutes 0 seconds")
	fetch := ParseDuration("0 hours 45 minutes 0 seconds")

	scan, err := Subtract(total, fetch)

	require.NoError(t, err)
	assert.Equal(t, "00:45:00", scan.Clock())
}

func TestSubtract_BorrowFromMinutesThenHours(t *testing.T) {
	total := ParseDuration("1 hour 0 minutes 10 seconds")
	fetch := ParseDuration("0 hours 0 minutes 30 seconds")

	scan, err := Subtract(total, fetch)

	require.NoError(t, err)
	assert.Equal(t, "00:59:40", scan.Clock())
}

func TestSubtract_DaysFoldBeforeSubtracting(t *testing.T) {
	total := ParseDuration("1 day 2 hours")
	fetch := ParseDuration("3 hours 30 minutes")

	scan, err := Subtract(total, fetch)

	require.NoError(t, err)
	assert.Equal(t, "22:30:00", scan.Clock())
}

func TestSubtract_FetchLongerThanTotal(t *testing.T) {
	total := ParseDuration("30 minutes")
	fetch := ParseDuration("1 hour")

	_, err := Subtract(total, fetch)

	assert.Error(t, err)
}
