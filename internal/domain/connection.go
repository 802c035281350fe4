package domain

import (
	"fmt"
	"strings"
	"time"
)

// TrainStop is a city visited at a wall-clock time. NextDay marks that the
// stop falls on the calendar day after the leg's operating day.
type TrainStop struct {
	City    City
	Time    Clock
	NextDay bool
}

// Connection is one scheduled point-to-point leg. Connections are built once
// at load time and never mutated afterwards.
type Connection struct {
	RouteID   string
	Train     TrainType
	Schedule  TrainSchedule
	Rates     TicketRates
	Departure TrainStop
	Arrival   TrainStop
}

// NewConnection validates its inputs and returns a connection. An arrival
// earlier in the day than the departure is marked as next-day.
func NewConnection(routeID string, train TrainType, schedule TrainSchedule, rates TicketRates, departure, arrival TrainStop) (*Connection, error) {
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return nil, ErrEmptyRouteID
	}
	if train.Name == "" {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrEmptyTrainType)
	}
	if schedule.Days().IsEmpty() {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrEmptySchedule)
	}
	if rates.FirstClass.IsNegative() || rates.SecondClass.IsNegative() {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrNegativeFare)
	}
	if departure.City.Name == "" || arrival.City.Name == "" {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrEmptyCityName)
	}
	if !departure.Time.Valid() || !arrival.Time.Valid() {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrInvalidClock)
	}

	if arrival.Time.Before(departure.Time) {
		arrival.NextDay = true
	}

	return &Connection{
		RouteID:   routeID,
		Train:     train,
		Schedule:  schedule,
		Rates:     rates,
		Departure: departure,
		Arrival:   arrival,
	}, nil
}

// Days returns the operating days of the connection.
func (c *Connection) Days() DaySet { return c.Schedule.Days() }

// Duration is the in-train time of the leg.
func (c *Connection) Duration() time.Duration {
	d := c.Arrival.Time.Sub(c.Departure.Time)
	if c.Arrival.NextDay {
		d += 24 * time.Hour
	}
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func (c *Connection) String() string {
	arr := c.Arrival.Time.String()
	if c.Arrival.NextDay {
		arr += " (+1d)"
	}
	return fmt.Sprintf("%s %s %s->%s %s-%s", c.RouteID, c.Train, c.Departure.City, c.Arrival.City, c.Departure.Time, arr)
}
