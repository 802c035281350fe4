package domain

import "github.com/shopspring/decimal"

// SearchCriteria is a partially specified filter over connections. Zero
// values mean "don't care": empty strings, nil pointers, an empty day set
// and invalid NullDecimals never constrain a match.
type SearchCriteria struct {
	DepartureCity     string
	ArrivalCity       string
	EarliestDeparture *Clock
	LatestArrival     *Clock
	NextDay           *bool
	PreferredTrain    string
	TravelDays        DaySet
	MaxFirstClass     decimal.NullDecimal
	MaxSecondClass    decimal.NullDecimal
}

// HasEndpoints reports whether both departure and arrival cities are set.
func (c SearchCriteria) HasEndpoints() bool {
	return c.DepartureCity != "" && c.ArrivalCity != ""
}

// Matches reports whether conn satisfies every field set in c. Times are
// compared as same-day wall-clock values.
func (c SearchCriteria) Matches(conn *Connection) bool {
	if c.DepartureCity != "" && conn.Departure.City.Name != c.DepartureCity {
		return false
	}
	if c.ArrivalCity != "" && conn.Arrival.City.Name != c.ArrivalCity {
		return false
	}
	if c.EarliestDeparture != nil && conn.Departure.Time < *c.EarliestDeparture {
		return false
	}
	if c.LatestArrival != nil && conn.Arrival.Time > *c.LatestArrival {
		return false
	}
	if c.NextDay != nil && conn.Arrival.NextDay != *c.NextDay {
		return false
	}
	if c.PreferredTrain != "" && conn.Train.Name != c.PreferredTrain {
		return false
	}
	if !c.TravelDays.IsSubsetOf(conn.Days()) {
		return false
	}
	if c.MaxFirstClass.Valid && conn.Rates.FirstClass.GreaterThan(c.MaxFirstClass.Decimal) {
		return false
	}
	if c.MaxSecondClass.Valid && conn.Rates.SecondClass.GreaterThan(c.MaxSecondClass.Decimal) {
		return false
	}
	return true
}

// ClockPtr returns a pointer to c, for populating optional criteria fields.
func ClockPtr(c Clock) *Clock { return &c }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// Cap returns a set NullDecimal holding d.
func Cap(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
