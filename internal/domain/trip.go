package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// TripIDSeparator joins route IDs into a trip identifier.
const TripIDSeparator = "+"

// Trip is an itinerary of one or more chained connections. All derived
// values are computed once by NewTrip.
type Trip struct {
	legs            []*Connection
	firstClassFare  decimal.Decimal
	secondClassFare decimal.Decimal
	duration        time.Duration
	transfers       []time.Duration
}

// NewTrip builds a trip from legs in travel order. Each leg must depart from
// the previous leg's arrival city and no city may be visited twice.
func NewTrip(legs ...*Connection) (*Trip, error) {
	if len(legs) == 0 {
		return nil, ErrNoLegs
	}
	for _, l := range legs {
		if l == nil {
			return nil, ErrNoLegs
		}
	}

	visited := map[City]struct{}{legs[0].Departure.City: {}}
	for i, l := range legs {
		if i > 0 && legs[i-1].Arrival.City != l.Departure.City {
			return nil, ErrBrokenChain
		}
		if _, seen := visited[l.Arrival.City]; seen {
			return nil, ErrLoop
		}
		visited[l.Arrival.City] = struct{}{}
	}

	t := &Trip{legs: append([]*Connection(nil), legs...)}
	for _, l := range t.legs {
		t.firstClassFare = t.firstClassFare.Add(l.Rates.FirstClass)
		t.secondClassFare = t.secondClassFare.Add(l.Rates.SecondClass)
	}
	t.duration = totalDuration(t.legs)
	t.transfers = transferTimes(t.legs)
	return t, nil
}

func totalDuration(legs []*Connection) time.Duration {
	if len(legs) == 1 {
		c := legs[0]
		d := c.Arrival.Time.Sub(c.Departure.Time)
		if c.Arrival.NextDay || d < 0 {
			d += day
		}
		return d
	}

	first, last := legs[0], legs[len(legs)-1]
	raw := last.Arrival.Time.Sub(first.Departure.Time)

	days := 0
	for _, l := range legs {
		if l.Arrival.NextDay {
			days++
		}
	}
	for i := 0; i < len(legs)-1; i++ {
		if legs[i+1].Departure.Time.Before(legs[i].Arrival.Time) {
			days++
		}
	}
	if raw+time.Duration(days)*day < 0 {
		days++
	}
	return raw + time.Duration(days)*day
}

func transferTimes(legs []*Connection) []time.Duration {
	out := make([]time.Duration, 0, len(legs)-1)
	for i := 0; i < len(legs)-1; i++ {
		next := legs[i+1]
		d := next.Departure.Time.Sub(legs[i].Arrival.Time)
		if d < 0 || next.Departure.NextDay {
			d += day
		}
		out = append(out, d)
	}
	return out
}

// ID identifies the trip by its route IDs joined with "+".
func (t *Trip) ID() string {
	ids := make([]string, len(t.legs))
	for i, l := range t.legs {
		ids[i] = l.RouteID
	}
	return strings.Join(ids, TripIDSeparator)
}

// RouteIDs returns the route IDs of the legs in order.
func (t *Trip) RouteIDs() []string {
	ids := make([]string, len(t.legs))
	for i, l := range t.legs {
		ids[i] = l.RouteID
	}
	return ids
}

// Legs returns the connections in travel order.
func (t *Trip) Legs() []*Connection { return append([]*Connection(nil), t.legs...) }

// Len returns the number of legs.
func (t *Trip) Len() int { return len(t.legs) }

// Transfers returns the number of changes of train.
func (t *Trip) Transfers() int { return len(t.legs) - 1 }

// IsDirect reports whether the trip is a single connection.
func (t *Trip) IsDirect() bool { return len(t.legs) == 1 }

// First returns the first leg.
func (t *Trip) First() *Connection { return t.legs[0] }

// Last returns the last leg.
func (t *Trip) Last() *Connection { return t.legs[len(t.legs)-1] }

// Origin returns the departure city of the first leg.
func (t *Trip) Origin() City { return t.First().Departure.City }

// Destination returns the arrival city of the last leg.
func (t *Trip) Destination() City { return t.Last().Arrival.City }

// Duration returns the total journey time including transfers.
func (t *Trip) Duration() time.Duration { return t.duration }

// FirstClassFare returns the summed first-class fare.
func (t *Trip) FirstClassFare() decimal.Decimal { return t.firstClassFare }

// SecondClassFare returns the summed second-class fare.
func (t *Trip) SecondClassFare() decimal.Decimal { return t.secondClassFare }

// Fare returns the summed fare for class.
func (t *Trip) Fare(class ServiceClass) decimal.Decimal {
	switch class {
	case FirstClass:
		return t.firstClassFare
	case SecondClass:
		return t.secondClassFare
	default:
		return decimal.Zero
	}
}

// TransferTimes returns the dwell time between each pair of adjacent legs.
func (t *Trip) TransferTimes() []time.Duration {
	return append([]time.Duration(nil), t.transfers...)
}

// ArrivalDayOffset is the number of midnights between the first departure
// and the final arrival. It counts unflagged crossings inferred from the
// total duration too.
func (t *Trip) ArrivalDayOffset() int {
	end := time.Duration(t.First().Departure.Time)*time.Minute + t.duration
	return int(end / (MinutesPerDay * time.Minute))
}
