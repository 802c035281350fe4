package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rail/internal/domain"
	"rail/internal/repository"
)

// TravellerRepository is a PostgreSQL implementation of repository.TravellerRepository.
type TravellerRepository struct {
	q Querier
}

// NewTravellerRepository creates a new TravellerRepository.
func NewTravellerRepository(db *sql.DB) *TravellerRepository {
	return &TravellerRepository{q: db}
}

// Create adds a new traveller.
func (r *TravellerRepository) Create(ctx context.Context, traveller *domain.Traveller) error {
	query := `INSERT INTO travellers (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.q.ExecContext(ctx, query, traveller.ID, traveller.Name, traveller.CreatedAt)
	return err
}

// GetByID retrieves a traveller by ID.
func (r *TravellerRepository) GetByID(ctx context.Context, id string) (*domain.Traveller, error) {
	query := `SELECT id, name, created_at FROM travellers WHERE id = $1`

	var t domain.Traveller
	err := r.q.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Ensure TravellerRepository implements repository.TravellerRepository.
var _ repository.TravellerRepository = (*TravellerRepository)(nil)
