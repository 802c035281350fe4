package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS connections (
		route_id           TEXT PRIMARY KEY,
		position           INTEGER NOT NULL,
		departure_city     TEXT NOT NULL,
		arrival_city       TEXT NOT NULL,
		departure_minute   SMALLINT NOT NULL,
		departure_next_day BOOLEAN NOT NULL DEFAULT FALSE,
		arrival_minute     SMALLINT NOT NULL,
		arrival_next_day   BOOLEAN NOT NULL DEFAULT FALSE,
		train_type         TEXT NOT NULL,
		operating_days     TEXT NOT NULL,
		first_class_rate   NUMERIC(10,2) NOT NULL CHECK (first_class_rate >= 0),
		second_class_rate  NUMERIC(10,2) NOT NULL CHECK (second_class_rate >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_connections_departure_city ON connections (departure_city)`,
	`CREATE TABLE IF NOT EXISTS travellers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		trip_id            TEXT PRIMARY KEY,
		first_class_total  NUMERIC(10,2) NOT NULL,
		second_class_total NUMERIC(10,2) NOT NULL,
		duration_minutes   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trip_connections (
		trip_id        TEXT NOT NULL REFERENCES trips (trip_id) ON DELETE CASCADE,
		route_id       TEXT NOT NULL REFERENCES connections (route_id),
		sequence_order SMALLINT NOT NULL,
		PRIMARY KEY (trip_id, sequence_order)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         TEXT PRIMARY KEY,
		trip_id    TEXT NOT NULL REFERENCES trips (trip_id),
		class_type TEXT NOT NULL,
		total_cost NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id           TEXT PRIMARY KEY,
		booking_id   TEXT NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
		trip_id      TEXT NOT NULL REFERENCES trips (trip_id),
		traveller_id TEXT NOT NULL REFERENCES travellers (id),
		class_type   TEXT NOT NULL,
		cost         NUMERIC(10,2) NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_traveller ON tickets (traveller_id)`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
