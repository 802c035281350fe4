package postgres

import (
	"context"
	"database/sql"
	"time"

	"rail/internal/domain"
	"rail/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Save stores the trip totals and its ordered legs.
func (r *TripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (trip_id, first_class_total, second_class_total, duration_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trip_id) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.ID(),
		trip.FirstClassFare(),
		trip.SecondClassFare(),
		int(trip.Duration()/time.Minute),
	)
	if err != nil {
		return err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return nil
	}

	legQuery := `INSERT INTO trip_connections (trip_id, route_id, sequence_order) VALUES ($1, $2, $3)`
	for i, routeID := range trip.RouteIDs() {
		if _, err := r.q.ExecContext(ctx, legQuery, trip.ID(), routeID, i+1); err != nil {
			return err
		}
	}

	return nil
}

// RouteIDs returns the ordered route IDs of a stored trip.
func (r *TripRepository) RouteIDs(ctx context.Context, tripID string) ([]string, error) {
	query := `SELECT route_id FROM trip_connections WHERE trip_id = $1 ORDER BY sequence_order`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, repository.ErrNotFound
	}
	return ids, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
