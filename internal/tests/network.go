package tests

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"rail/internal/catalog"
	"rail/internal/domain"
)

// Leg describes one connection in a test network. Zero fields get sensible
// defaults: daily service, ICE, 100/50 fares.
type Leg struct {
	Route   string
	From    string
	To      string
	Depart  string
	Arrive  string
	NextDay bool
	Days    domain.DaySet
	Train   string
	First   string
	Second  string
}

// Network builds connections against a private registry.
type Network struct {
	t        testing.TB
	Registry *domain.Registry
	conns    []*domain.Connection
	byRoute  map[string]*domain.Connection
}

// NewNetwork creates an empty network.
func NewNetwork(t testing.TB) *Network {
	return &Network{
		t:        t,
		Registry: domain.NewRegistry(),
		byRoute:  make(map[string]*domain.Connection),
	}
}

// Add appends legs to the network.
func (n *Network) Add(legs ...Leg) *Network {
	n.t.Helper()
	for _, l := range legs {
		c := n.build(l)
		n.conns = append(n.conns, c)
		n.byRoute[c.RouteID] = c
	}
	return n
}

func (n *Network) build(l Leg) *domain.Connection {
	n.t.Helper()
	if l.Days == 0 {
		l.Days = domain.EveryDay
	}
	if l.Train == "" {
		l.Train = "ICE"
	}
	if l.First == "" {
		l.First = "100"
	}
	if l.Second == "" {
		l.Second = "50"
	}

	from, err := n.Registry.City(l.From)
	require.NoError(n.t, err)
	to, err := n.Registry.City(l.To)
	require.NoError(n.t, err)
	train, err := n.Registry.TrainType(l.Train)
	require.NoError(n.t, err)
	dep, err := domain.ParseClock(l.Depart)
	require.NoError(n.t, err)
	arr, err := domain.ParseClock(l.Arrive)
	require.NoError(n.t, err)
	sched, err := domain.NewTrainSchedule(l.Days)
	require.NoError(n.t, err)
	rates, err := domain.NewTicketRates(decimal.RequireFromString(l.First), decimal.RequireFromString(l.Second))
	require.NoError(n.t, err)

	c, err := domain.NewConnection(l.Route, train, sched, rates,
		domain.TrainStop{City: from, Time: dep},
		domain.TrainStop{City: to, Time: arr, NextDay: l.NextDay})
	require.NoError(n.t, err)
	return c
}

// Conn returns the connection for route.
func (n *Network) Conn(route string) *domain.Connection {
	n.t.Helper()
	c, ok := n.byRoute[route]
	require.True(n.t, ok, "unknown route %s", route)
	return c
}

// Connections returns all connections in insertion order.
func (n *Network) Connections() []*domain.Connection {
	return append([]*domain.Connection(nil), n.conns...)
}

// Catalog indexes the network.
func (n *Network) Catalog() *catalog.Catalog {
	n.t.Helper()
	c, err := catalog.New(n.conns)
	require.NoError(n.t, err)
	return c
}

// Trip builds a trip from route IDs.
func (n *Network) Trip(routes ...string) *domain.Trip {
	n.t.Helper()
	legs := make([]*domain.Connection, len(routes))
	for i, r := range routes {
		legs[i] = n.Conn(r)
	}
	trip, err := domain.NewTrip(legs...)
	require.NoError(n.t, err)
	return trip
}

// Europe returns a small network used across the test suites: no direct
// Paris-Berlin service, one Paris-Cologne-Berlin chain and a few
// distractors.
func Europe(t testing.TB) *Network {
	return NewNetwork(t).Add(
		Leg{Route: "PC1", From: "Paris", To: "Cologne", Depart: "10:00", Arrive: "14:00", Train: "Thalys", First: "89.00", Second: "49.00"},
		Leg{Route: "CB1", From: "Cologne", To: "Berlin", Depart: "14:30", Arrive: "19:00", First: "99.50", Second: "59.50"},
		Leg{Route: "CB2", From: "Cologne", To: "Berlin", Depart: "14:10", Arrive: "18:00"},
		Leg{Route: "PL1", From: "Paris", To: "Lyon", Depart: "07:00", Arrive: "09:00", Train: "TGV"},
		Leg{Route: "LM1", From: "Lyon", To: "Marseille", Depart: "09:40", Arrive: "11:20", Train: "TGV"},
		Leg{Route: "CP1", From: "Cologne", To: "Paris", Depart: "15:00", Arrive: "19:00", Train: "Thalys"},
	)
}
