package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
)

func campus(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestActiveIn(t *testing.T) {
	loc := campus(t)
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 10, 15, hour, minute, 0, 0, loc)
	}

	testCases := []struct {
		name  string
		date  string
		start string
		end   string
		now   time.Time
		want  bool
	}{
		{"at start", "2026-10-15", "09:00", "10:00", at(9, 0), true},
		{"last minute before grace", "2026-10-15", "09:00", "10:00", at(9, 54), true},
		{"inside grace", "2026-10-15", "09:00", "10:00", at(9, 55), false},
		{"after end", "2026-10-15", "09:00", "10:00", at(10, 1), false},
		{"before start", "2026-10-15", "09:00", "10:00", at(8, 59), false},
		{"seconds in clock", "2026-10-15", "09:00:00", "10:00:00", at(9, 30), true},
		{"other day", "2026-10-16", "09:00", "10:00", at(9, 30), false},
		{"yesterday", "2026-10-14", "09:00", "10:00", at(9, 30), false},
		{"timestamp date", "2026-10-15T00:00:00Z", "09:00", "10:00", at(9, 30), true},
		{"shorter than grace", "2026-10-15", "09:00", "09:04", at(9, 0), false},
		{"exactly grace long", "2026-10-15", "09:00", "09:05", at(9, 0), false},
		{"one minute longer than grace", "2026-10-15", "09:00", "09:06", at(9, 0), true},
		{"one minute longer than grace, second minute", "2026-10-15", "09:00", "09:06", at(9, 1), false},
		{"end before start", "2026-10-15", "10:00", "09:00", at(9, 30), false},
		{"malformed date", "15.10.2026", "09:00", "10:00", at(9, 30), false},
		{"malformed start", "2026-10-15", "nine", "10:00", at(9, 30), false},
		{"malformed end", "2026-10-15", "09:00", "25:00", at(9, 30), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ActiveIn(loc, tc.date, tc.start, tc.end, tc.now))
		})
	}
}

func TestActiveInUsesCampusDate(t *testing.T) {
	loc := campus(t)
	// 02:30 UTC on the 16th is still the evening of the 15th on campus
	now := time.Date(2026, 10, 16, 2, 30, 0, 0, time.UTC)

	assert.True(t, ActiveIn(loc, "2026-10-15", "22:00", "23:30", now))
	assert.False(t, ActiveIn(loc, "2026-10-16", "02:00", "03:00", now))
}

func TestActiveInNeverMatchesOtherDates(t *testing.T) {
	loc := campus(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, loc)

	for offset := -3; offset <= 3; offset++ {
		if offset == 0 {
			continue
		}
		date := now.AddDate(0, 0, offset).Format("2006-01-02")
		assert.False(t, ActiveIn(loc, date, "00:00", "23:59", now), date)
	}
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("13:45")
	require.NoError(t, err)
	assert.Equal(t, 13*60+45, minutes)

	minutes, err = ParseClock(" 7:05:59 ")
	require.NoError(t, err)
	assert.Equal(t, 7*60+5, minutes)

	_, err = ParseClock("1:45 PM")
	assert.ErrorIs(t, err, errorz.ErrInvalidTime)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00", FormatClock("09:00:00"))
	assert.Equal(t, "07:05", FormatClock("7:05"))
	assert.Equal(t, "soon", FormatClock("soon"))
}
