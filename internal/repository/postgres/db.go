package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rail/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB // nil when bound to a transaction
	q  Querier
}

// NewStore creates a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// NewStoreWithTx creates a Store whose repositories all use tx.
func NewStoreWithTx(tx *sql.Tx) *Store {
	return &Store{q: tx}
}

// Connections returns the connection repository.
func (s *Store) Connections() repository.ConnectionRepository {
	return &ConnectionRepository{q: s.q}
}

// Travellers returns the traveller repository.
func (s *Store) Travellers() repository.TravellerRepository {
	return &TravellerRepository{q: s.q}
}

// Trips returns the trip repository.
func (s *Store) Trips() repository.TripRepository {
	return &TripRepository{q: s.q}
}

// Bookings returns the booking repository.
func (s *Store) Bookings() repository.BookingRepository {
	return &BookingRepository{q: s.q}
}

// WithinTx runs fn inside a transaction. A Store that is already bound to a
// transaction runs fn directly.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewStoreWithTx(tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
