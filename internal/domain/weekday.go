package domain

import (
	"fmt"
	"strings"
)

// Weekday is an ISO-8601 day of week, Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// Valid reports whether d is one of the seven ISO days.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// String returns the ISO token, e.g. "MONDAY".
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Abbrev returns the three-letter form, e.g. "Mon".
func (d Weekday) Abbrev() string {
	if !d.Valid() {
		return d.String()
	}
	n := weekdayNames[d]
	return n[:1] + strings.ToLower(n[1:3])
}

// Next returns the following day, wrapping Sunday to Monday.
func (d Weekday) Next() Weekday {
	if d == Sunday {
		return Monday
	}
	return d + 1
}

// ParseWeekday accepts ISO tokens in any case ("MONDAY", "monday") and
// three-letter abbreviations ("Mon").
func ParseWeekday(s string) (Weekday, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if len(t) >= 3 {
		for d := Monday; d <= Sunday; d++ {
			if t == weekdayNames[d] || t == weekdayNames[d][:3] {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// DaySet is an immutable set of weekdays stored as a bitmask.
type DaySet uint8

const (
	// Weekdays is Monday through Friday.
	Weekdays DaySet = 1<<Monday | 1<<Tuesday | 1<<Wednesday | 1<<Thursday | 1<<Friday
	// Weekend is Saturday and Sunday.
	Weekend DaySet = 1<<Saturday | 1<<Sunday
	// EveryDay contains all seven days.
	EveryDay = Weekdays | Weekend
)

// NewDaySet builds a set from the given days. Invalid days are ignored.
func NewDaySet(days ...Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns s plus d.
func (s DaySet) With(d Weekday) DaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<d
}

// Contains reports whether d is in s.
func (s DaySet) Contains(d Weekday) bool { return d.Valid() && s&(1<<d) != 0 }

// IsEmpty reports whether s has no days.
func (s DaySet) IsEmpty() bool { return s&EveryDay == 0 }

// IsSubsetOf reports whether every day of s is also in other.
func (s DaySet) IsSubsetOf(other DaySet) bool { return s&^other == 0 }

// Len returns the number of days in s.
func (s DaySet) Len() int {
	n := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Shift advances every day in s by one, wrapping Sunday to Monday.
func (s DaySet) Shift() DaySet {
	var out DaySet
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			out = out.With(d.Next())
		}
	}
	return out
}

// Days returns the members of s in ISO order.
func (s DaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Tokens returns the ISO names of the members of s in order.
func (s DaySet) Tokens() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

// Describe renders s for people: "Daily", "Weekdays (Mon-Fri)",
// "Weekends (Sat-Sun)" or "Mon, Wed, Fri".
func (s DaySet) Describe() string {
	switch s {
	case 0:
		return "No service"
	case EveryDay:
		return "Daily"
	case Weekdays:
		return "Weekdays (Mon-Fri)"
	case Weekend:
		return "Weekends (Sat-Sun)"
	}
	days := s.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.Abbrev()
	}
	return strings.Join(parts, ", ")
}

// String returns the ISO tokens joined by commas.
func (s DaySet) String() string { return strings.Join(s.Tokens(), ",") }

// ParseDaySet parses a comma-separated list of day tokens. An empty string
// yields an empty set.
func ParseDaySet(s string) (DaySet, error) {
	var set DaySet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return 0, err
		}
		set = set.With(d)
	}
	return set, nil
}
