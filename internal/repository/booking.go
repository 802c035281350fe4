package repository

import (
	"context"

	"rail/internal/domain"
)

// TravellerRepository defines the persistence operations for travellers.
type TravellerRepository interface {
	// Create persists a new traveller.
	Create(ctx context.Context, traveller *domain.Traveller) error

	// GetByID retrieves a traveller by ID.
	GetByID(ctx context.Context, id string) (*domain.Traveller, error)
}

// TripRepository stores the itineraries referenced by bookings.
type TripRepository interface {
	// Save stores trip and its ordered legs. Saving an existing trip is a no-op.
	Save(ctx context.Context, trip *domain.Trip) error

	// RouteIDs returns the ordered route IDs of a stored trip.
	RouteIDs(ctx context.Context, tripID string) ([]string, error)
}

// BookingRepository defines the persistence operations for bookings and tickets.
type BookingRepository interface {
	// Create persists a booking with all of its tickets.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking with its tickets and travellers.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// TicketsByTraveller lists a traveller's tickets, newest first.
	TicketsByTraveller(ctx context.Context, travellerID string) ([]domain.Ticket, error)
}

// Store groups the repositories and runs units of work.
type Store interface {
	Connections() ConnectionRepository
	Travellers() TravellerRepository
	Trips() TripRepository
	Bookings() BookingRepository

	// WithinTx runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
