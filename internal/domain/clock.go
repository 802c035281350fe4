package domain

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the length of one calendar day in minutes.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day in minutes since midnight, without a
// date or timezone.
type Clock int

// NewClock returns the Clock for hour:minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, hour, minute)
	}
	return Clock(hour*60 + minute), nil
}

// MustClock is like NewClock but panics on invalid input. Intended for tests
// and constants.
func MustClock(hour, minute int) Clock {
	c, err := NewClock(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClock parses a 24-hour "HH:MM" value.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// Valid reports whether c lies within a single day.
func (c Clock) Valid() bool { return c >= 0 && c < MinutesPerDay }

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Before reports whether c is strictly earlier in the day than other.
func (c Clock) Before(other Clock) bool { return c < other }

// Sub returns c minus other as a duration; it is negative when c is earlier.
func (c Clock) Sub(other Clock) time.Duration {
	return time.Duration(int(c)-int(other)) * time.Minute
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// FormatDuration renders d as "1d 2h 5m", omitting leading zero units.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	days := total / MinutesPerDay
	hours := (total % MinutesPerDay) / 60
	minutes := total % 60

	var sb strings.Builder
	if days > 0 {
		fmt.Fprintf(&sb, "%dd ", days)
	}
	if hours > 0 || days > 0 {
		fmt.Fprintf(&sb, "%dh ", hours)
	}
	fmt.Fprintf(&sb, "%dm", minutes)
	return sb.String()
}
