// Package catalog holds the immutable snapshot of scheduled connections that
// searches run against.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"rail/internal/domain"
)

var (
	// ErrDuplicateRoute is returned when two connections share a route ID.
	ErrDuplicateRoute = errors.New("duplicate route id")

	// ErrUnknownRoute is returned when a route ID is not in the catalog.
	ErrUnknownRoute = errors.New("unknown route id")
)

// Catalog is a read-only, indexed collection of connections. It is safe for
// concurrent use once constructed.
type Catalog struct {
	connections []*domain.Connection
	byRoute     map[string]*domain.Connection
	byDeparture map[string][]*domain.Connection
}

// New indexes conns. Input order is preserved by every query.
func New(conns []*domain.Connection) (*Catalog, error) {
	c := &Catalog{
		connections: make([]*domain.Connection, 0, len(conns)),
		byRoute:     make(map[string]*domain.Connection, len(conns)),
		byDeparture: make(map[string][]*domain.Connection),
	}
	for i, conn := range conns {
		if conn == nil {
			return nil, fmt.Errorf("connection %d is nil", i)
		}
		if _, dup := c.byRoute[conn.RouteID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, conn.RouteID)
		}
		c.connections = append(c.connections, conn)
		c.byRoute[conn.RouteID] = conn
		from := conn.Departure.City.Name
		c.byDeparture[from] = append(c.byDeparture[from], conn)
	}
	return c, nil
}

// Len returns the number of connections.
func (c *Catalog) Len() int { return len(c.connections) }

// All returns every connection in load order.
func (c *Catalog) All() []*domain.Connection {
	return append([]*domain.Connection(nil), c.connections...)
}

// Route looks up a connection by route ID.
func (c *Catalog) Route(id string) (*domain.Connection, bool) {
	conn, ok := c.byRoute[id]
	return conn, ok
}

// Search returns the connections satisfying pred.
func (c *Catalog) Search(pred func(*domain.Connection) bool) []*domain.Connection {
	return filter(c.connections, pred)
}

// Match returns the connections satisfying criteria. A departure city in the
// criteria narrows the scan to that city's departures.
func (c *Catalog) Match(criteria domain.SearchCriteria) []*domain.Connection {
	pool := c.connections
	if criteria.DepartureCity != "" {
		pool = c.byDeparture[criteria.DepartureCity]
	}
	return filter(pool, criteria.Matches)
}

// Trip rebuilds an itinerary from its route IDs.
func (c *Catalog) Trip(routeIDs ...string) (*domain.Trip, error) {
	legs := make([]*domain.Connection, 0, len(routeIDs))
	for _, id := range routeIDs {
		conn, ok := c.byRoute[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, id)
		}
		legs = append(legs, conn)
	}
	return domain.NewTrip(legs...)
}

// Cities returns the sorted names of every city served.
func (c *Catalog) Cities() []string {
	seen := make(map[string]struct{})
	for _, conn := range c.connections {
		seen[conn.Departure.City.Name] = struct{}{}
		seen[conn.Arrival.City.Name] = struct{}{}
	}
	return sortedKeys(seen)
}

// TrainTypes returns the sorted names of every train type in service.
func (c *Catalog) TrainTypes() []string {
	seen := make(map[string]struct{})
	for _, conn := range c.connections {
		seen[conn.Train.Name] = struct{}{}
	}
	return sortedKeys(seen)
}

func filter(pool []*domain.Connection, pred func(*domain.Connection) bool) []*domain.Connection {
	var out []*domain.Connection
	for _, conn := range pool {
		if pred(conn) {
			out = append(out, conn)
		}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
