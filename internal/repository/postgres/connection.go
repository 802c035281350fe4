package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/shopspring/decimal"

	"rail/internal/domain"
	"rail/internal/repository"
)

// ConnectionRepository is a PostgreSQL implementation of repository.ConnectionRepository.
type ConnectionRepository struct {
	q Querier
}

// NewConnectionRepository creates a new PostgreSQL connection repository.
func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{q: db}
}

// NewConnectionRepositoryWithTx creates a connection repository using a transaction.
func NewConnectionRepositoryWithTx(tx *sql.Tx) *ConnectionRepository {
	return &ConnectionRepository{q: tx}
}

// LoadAll reads every connection in load order.
func (r *ConnectionRepository) LoadAll(ctx context.Context, reg *domain.Registry) ([]*domain.Connection, error) {
	defer newrelic.FromContext(ctx).StartSegment("postgres.LoadConnections").End()

	query := `
		SELECT route_id, departure_city, arrival_city, departure_minute, departure_next_day,
		       arrival_minute, arrival_next_day, train_type, operating_days,
		       first_class_rate, second_class_rate
		FROM connections ORDER BY position, route_id
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		var (
			routeID, from, to, train, days string
			depMinute, arrMinute           int
			depNextDay, arrNextDay         bool
			first, second                  decimal.Decimal
		)
		if err := rows.Scan(&routeID, &from, &to, &depMinute, &depNextDay,
			&arrMinute, &arrNextDay, &train, &days, &first, &second); err != nil {
			return nil, err
		}

		conn, err := buildConnection(reg, routeID, from, to, train, days,
			domain.Clock(depMinute), depNextDay, domain.Clock(arrMinute), arrNextDay, first, second)
		if err != nil {
			return nil, fmt.Errorf("connection %s: %w", routeID, err)
		}
		conns = append(conns, conn)
	}

	return conns, rows.Err()
}

func buildConnection(reg *domain.Registry, routeID, from, to, trainName, days string,
	dep domain.Clock, depNextDay bool, arr domain.Clock, arrNextDay bool,
	first, second decimal.Decimal,
) (*domain.Connection, error) {
	depCity, err := reg.City(from)
	if err != nil {
		return nil, err
	}
	arrCity, err := reg.City(to)
	if err != nil {
		return nil, err
	}
	train, err := reg.TrainType(trainName)
	if err != nil {
		return nil, err
	}
	set, err := domain.ParseDaySet(days)
	if err != nil {
		return nil, err
	}
	sched, err := domain.NewTrainSchedule(set)
	if err != nil {
		return nil, err
	}
	rates, err := domain.NewTicketRates(first, second)
	if err != nil {
		return nil, err
	}
	return domain.NewConnection(routeID, train, sched, rates,
		domain.TrainStop{City: depCity, Time: dep, NextDay: depNextDay},
		domain.TrainStop{City: arrCity, Time: arr, NextDay: arrNextDay})
}

// SaveAll inserts or replaces conns. Call it through Store.WithinTx to make
// the import atomic.
func (r *ConnectionRepository) SaveAll(ctx context.Context, conns []*domain.Connection) error {
	defer newrelic.FromContext(ctx).StartSegment("postgres.SaveConnections").End()

	query := `
		INSERT INTO connections (route_id, position, departure_city, arrival_city,
			departure_minute, departure_next_day, arrival_minute, arrival_next_day,
			train_type, operating_days, first_class_rate, second_class_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (route_id) DO UPDATE SET
			position = EXCLUDED.position,
			departure_city = EXCLUDED.departure_city,
			arrival_city = EXCLUDED.arrival_city,
			departure_minute = EXCLUDED.departure_minute,
			departure_next_day = EXCLUDED.departure_next_day,
			arrival_minute = EXCLUDED.arrival_minute,
			arrival_next_day = EXCLUDED.arrival_next_day,
			train_type = EXCLUDED.train_type,
			operating_days = EXCLUDED.operating_days,
			first_class_rate = EXCLUDED.first_class_rate,
			second_class_rate = EXCLUDED.second_class_rate
	`

	for i, c := range conns {
		_, err := r.q.ExecContext(ctx, query,
			c.RouteID,
			i,
			c.Departure.City.Name,
			c.Arrival.City.Name,
			int(c.Departure.Time),
			c.Departure.NextDay,
			int(c.Arrival.Time),
			c.Arrival.NextDay,
			c.Train.Name,
			c.Days().String(),
			c.Rates.FirstClass,
			c.Rates.SecondClass,
		)
		if err != nil {
			return fmt.Errorf("save connection %s: %w", c.RouteID, err)
		}
	}

	return nil
}

// Count returns the number of stored connections.
func (r *ConnectionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&n)
	return n, err
}

// Ensure ConnectionRepository implements repository.ConnectionRepository.
var _ repository.ConnectionRepository = (*ConnectionRepository)(nil)
