package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TrainSchedule is the non-empty set of days a connection operates on.
type TrainSchedule struct {
	days DaySet
}

// NewTrainSchedule returns a schedule for days, rejecting an empty set.
func NewTrainSchedule(days DaySet) (TrainSchedule, error) {
	if days.IsEmpty() {
		return TrainSchedule{}, ErrEmptySchedule
	}
	return TrainSchedule{days: days & EveryDay}, nil
}

// Days returns the operating days.
func (s TrainSchedule) Days() DaySet { return s.days }

// RunsOn reports whether the schedule operates on d.
func (s TrainSchedule) RunsOn(d Weekday) bool { return s.days.Contains(d) }

// ServiceClass selects a fare class.
type ServiceClass int

const (
	FirstClass ServiceClass = iota + 1
	SecondClass
)

func (c ServiceClass) String() string {
	switch c {
	case FirstClass:
		return "FIRST"
	case SecondClass:
		return "SECOND"
	default:
		return fmt.Sprintf("ServiceClass(%d)", int(c))
	}
}

// Valid reports whether c is a known class.
func (c ServiceClass) Valid() bool { return c == FirstClass || c == SecondClass }

// ParseServiceClass accepts "first", "1", "first class" and the analogous
// second-class forms, case-insensitively.
func ParseServiceClass(s string) (ServiceClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1", "1st", "first class", "first_class":
		return FirstClass, nil
	case "second", "2", "2nd", "second class", "second_class":
		return SecondClass, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownServiceClass, s)
}

// TicketRates holds the per-class fare of one leg.
type TicketRates struct {
	FirstClass  decimal.Decimal
	SecondClass decimal.Decimal
}

// NewTicketRates validates that both fares are non-negative.
func NewTicketRates(first, second decimal.Decimal) (TicketRates, error) {
	if first.IsNegative() || second.IsNegative() {
		return TicketRates{}, fmt.Errorf("%w: first=%s second=%s", ErrNegativeFare, first, second)
	}
	return TicketRates{FirstClass: first, SecondClass: second}, nil
}

// For returns the fare for class. Unknown classes yield zero.
func (r TicketRates) For(class ServiceClass) decimal.Decimal {
	switch class {
	case FirstClass:
		return r.FirstClass
	case SecondClass:
		return r.SecondClass
	default:
		return decimal.Zero
	}
}
