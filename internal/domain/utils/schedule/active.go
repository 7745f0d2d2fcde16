package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/internal/domain/utils/location"
)

// GraceMinutes is the tail of an event during which no new notification is raised
const GraceMinutes = 5

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// IsActive reports whether an event on date running from startTime to endTime
// is in progress at now, evaluated in campus time.
func IsActive(date, startTime, endTime string, now time.Time) bool {
	return ActiveIn(location.Location(), date, startTime, endTime, now)
}

// ActiveIn is IsActive with an explicit time zone.
//
// The event must be on now's calendar date; events crossing midnight are never active.
// The window is [start, end-GraceMinutes) in whole minutes and is empty when the event
// is no longer than the grace period.
func ActiveIn(loc *time.Location, date, startTime, endTime string, now time.Time) bool {
	local := now.In(loc)

	day, err := ParseDate(date)
	if err != nil || day != local.Format(dateLayout) {
		return false
	}

	startMinutes, err := ParseClock(startTime)
	if err != nil {
		return false
	}
	endMinutes, err := ParseClock(endTime)
	if err != nil {
		return false
	}

	graceStart := endMinutes - GraceMinutes
	if graceStart <= startMinutes {
		return false
	}

	nowMinutes := local.Hour()*60 + local.Minute()
	return nowMinutes >= startMinutes && nowMinutes < graceStart
}

// ParseDate normalizes a calendar date to "2006-01-02".
// Timestamps such as "2006-01-02T00:00:00Z" keep only their date part.
func ParseDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if len(date) > len(dateLayout) && date[len(dateLayout)] == 'T' {
		date = date[:len(dateLayout)]
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date %q", errorz.ErrInvalidTime, date)
	}
	return date, nil
}

// ParseClock converts a "15:04" or "15:04:05" wall-clock time to minutes since midnight
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: clock %q", errorz.ErrInvalidTime, value)
}

// FormatClock renders a wall-clock value as "15:04", falling back to the raw value
func FormatClock(value string) string {
	minutes, err := ParseClock(value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
