package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rail/internal/domain"
	"rail/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a booking and its tickets. Use Store.WithinTx so a failed
// ticket insert does not leave a partial booking behind.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, trip_id, class_type, total_cost, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.Class.String(),
		booking.TotalCost(),
		booking.CreatedAt,
	)
	if err != nil {
		return err
	}

	ticketQuery := `
		INSERT INTO tickets (id, booking_id, trip_id, traveller_id, class_type, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, t := range booking.Tickets {
		if _, err := r.q.ExecContext(ctx, ticketQuery,
			t.ID,
			booking.ID,
			t.TripID,
			t.TravellerID,
			t.Class.String(),
			t.Cost,
			t.CreatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a booking with its tickets and travellers.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT id, trip_id, class_type, created_at FROM bookings WHERE id = $1`

	var b domain.Booking
	var class string
	err := r.q.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.TripID, &class, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if b.Class, err = domain.ParseServiceClass(class); err != nil {
		return nil, err
	}

	ticketQuery := `
		SELECT t.id, t.booking_id, t.trip_id, t.traveller_id, t.class_type, t.cost, t.created_at,
		       tr.name, tr.created_at
		FROM tickets t
		JOIN travellers tr ON tr.id = t.traveller_id
		WHERE t.booking_id = $1
		ORDER BY t.created_at, t.id
	`
	rows, err := r.q.QueryContext(ctx, ticketQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		var tr domain.Traveller
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TripID, &t.TravellerID, &class, &t.Cost, &t.CreatedAt,
			&tr.Name, &tr.CreatedAt); err != nil {
			return nil, err
		}
		if t.Class, err = domain.ParseServiceClass(class); err != nil {
			return nil, err
		}
		tr.ID = t.TravellerID
		b.Tickets = append(b.Tickets, t)
		b.Travellers = append(b.Travellers, tr)
	}

	return &b, rows.Err()
}

// TicketsByTraveller lists a traveller's tickets, newest first.
func (r *BookingRepository) TicketsByTraveller(ctx context.Context, travellerID string) ([]domain.Ticket, error) {
	query := `
		SELECT id, booking_id, trip_id, traveller_id, class_type, cost, created_at
		FROM tickets WHERE traveller_id = $1
		ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, travellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		var class string
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TripID, &t.TravellerID, &class, &t.Cost, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.Class, err = domain.ParseServiceClass(class); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
