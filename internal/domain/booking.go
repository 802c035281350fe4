package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Traveller is a person holding tickets.
type Traveller struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Ticket grants one traveller a seat in one class on a trip.
type Ticket struct {
	ID          string
	BookingID   string
	TripID      string
	TravellerID string
	Class       ServiceClass
	Cost        decimal.Decimal
	CreatedAt   time.Time
}

// NewTicket prices a ticket for traveller on trip in class.
func NewTicket(id string, trip *Trip, traveller Traveller, class ServiceClass) Ticket {
	return Ticket{
		ID:          id,
		TripID:      trip.ID(),
		TravellerID: traveller.ID,
		Class:       class,
		Cost:        trip.Fare(class),
		CreatedAt:   time.Now(),
	}
}

// Booking groups the tickets bought together for one trip.
type Booking struct {
	ID         string
	TripID     string
	Class      ServiceClass
	Tickets    []Ticket
	Travellers []Traveller
	CreatedAt  time.Time
}

// TotalCost sums the ticket costs.
func (b *Booking) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Tickets {
		total = total.Add(t.Cost)
	}
	return total
}
