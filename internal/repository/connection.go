package repository

import (
	"context"

	"rail/internal/domain"
)

// ConnectionRepository persists the schedule catalog.
type ConnectionRepository interface {
	// LoadAll reads every connection in load order, interning names in reg.
	LoadAll(ctx context.Context, reg *domain.Registry) ([]*domain.Connection, error)

	// SaveAll inserts or replaces conns, keyed by route ID.
	SaveAll(ctx context.Context, conns []*domain.Connection) error

	// Count returns the number of stored connections.
	Count(ctx context.Context) (int, error)
}
