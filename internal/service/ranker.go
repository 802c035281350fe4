package service

import (
	"fmt"
	"sort"
	"strings"

	"rail/internal/domain"
)

// SortKey selects the ordering of a result list.
type SortKey string

const (
	SortByDuration        SortKey = "DURATION"
	SortByFirstClassFare  SortKey = "FIRST_CLASS_FARE"
	SortBySecondClassFare SortKey = "SECOND_CLASS_FARE"
	SortByDepartureTime   SortKey = "DEPARTURE_TIME"
	SortByArrivalTime     SortKey = "ARRIVAL_TIME"
	SortByTransfers       SortKey = "TRANSFER_COUNT"
)

// SortKeys lists every key in menu order.
var SortKeys = []SortKey{
	SortByDuration,
	SortByFirstClassFare,
	SortBySecondClassFare,
	SortByDepartureTime,
	SortByArrivalTime,
	SortByTransfers,
}

var sortAliases = map[string]SortKey{
	"duration":           SortByDuration,
	"first_class_fare":   SortByFirstClassFare,
	"price_first_class":  SortByFirstClassFare,
	"first":              SortByFirstClassFare,
	"second_class_fare":  SortBySecondClassFare,
	"price_second_class": SortBySecondClassFare,
	"second":             SortBySecondClassFare,
	"departure_time":     SortByDepartureTime,
	"departure":          SortByDepartureTime,
	"arrival_time":       SortByArrivalTime,
	"arrival":            SortByArrivalTime,
	"transfer_count":     SortByTransfers,
	"transfers":          SortByTransfers,
}

// ParseSortKey parses a key case-insensitively. Empty input means duration.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByDuration, nil
	}
	s = strings.ReplaceAll(s, "-", "_")
	if k, ok := sortAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// Description is a human-readable label for the key.
func (k SortKey) Description() string {
	switch k {
	case SortByDuration:
		return "Duration (Fastest first)"
	case SortByFirstClassFare:
		return "Price - First Class (Cheapest first)"
	case SortBySecondClassFare:
		return "Price - Second Class (Cheapest first)"
	case SortByDepartureTime:
		return "Departure Time (Earliest first)"
	case SortByArrivalTime:
		return "Arrival Time (Earliest first)"
	case SortByTransfers:
		return "Number of Transfers (Fewest first)"
	default:
		return string(k)
	}
}

// SortTrips orders trips in place by key. The sort is stable, so trips with
// equal keys keep their input order. Unknown keys leave trips untouched.
func SortTrips(trips []*domain.Trip, key SortKey) {
	less := lessFunc(key)
	if less == nil {
		return
	}
	sort.SliceStable(trips, func(i, j int) bool { return less(trips[i], trips[j]) })
}

func lessFunc(key SortKey) func(a, b *domain.Trip) bool {
	switch key {
	case SortByDuration:
		return func(a, b *domain.Trip) bool { return a.Duration() < b.Duration() }
	case SortByFirstClassFare:
		return func(a, b *domain.Trip) bool { return a.FirstClassFare().LessThan(b.FirstClassFare()) }
	case SortBySecondClassFare:
		return func(a, b *domain.Trip) bool { return a.SecondClassFare().LessThan(b.SecondClassFare()) }
	case SortByDepartureTime:
		return func(a, b *domain.Trip) bool { return a.First().Departure.Time < b.First().Departure.Time }
	case SortByArrivalTime:
		return func(a, b *domain.Trip) bool {
			x, y := a.Last().Arrival, b.Last().Arrival
			if x.NextDay != y.NextDay {
				return !x.NextDay
			}
			return x.Time < y.Time
		}
	case SortByTransfers:
		return func(a, b *domain.Trip) bool {
			if a.Len() != b.Len() {
				return a.Len() < b.Len()
			}
			return a.Duration() < b.Duration()
		}
	default:
		return nil
	}
}

// Summary describes a result list.
type Summary struct {
	Total          int
	Direct         int
	WithTransfers  int
	Fastest        *domain.Trip
	CheapestFirst  *domain.Trip
	CheapestSecond *domain.Trip
}

// Summarize computes counts and best-in-class trips. Ties go to the earlier
// trip in the list.
func Summarize(trips []*domain.Trip) Summary {
	s := Summary{Total: len(trips)}
	for _, t := range trips {
		if t.IsDirect() {
			s.Direct++
		}
		if s.Fastest == nil || t.Duration() < s.Fastest.Duration() {
			s.Fastest = t
		}
		if s.CheapestFirst == nil || t.FirstClassFare().LessThan(s.CheapestFirst.FirstClassFare()) {
			s.CheapestFirst = t
		}
		if s.CheapestSecond == nil || t.SecondClassFare().LessThan(s.CheapestSecond.SecondClassFare()) {
			s.CheapestSecond = t
		}
	}
	s.WithTransfers = s.Total - s.Direct
	return s
}
