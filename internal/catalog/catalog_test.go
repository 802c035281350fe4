package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/catalog"
	"rail/internal/domain"
	"rail/internal/tests"
)

func routes(conns []*domain.Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.RouteID
	}
	return out
}

func TestNew_RejectsDuplicateRoutes(t *testing.T) {
	net := tests.NewNetwork(t).Add(
		tests.Leg{Route: "R1", From: "A", To: "B", Depart: "08:00", Arrive: "09:00"},
		tests.Leg{Route: "R1", From: "B", To: "C", Depart: "10:00", Arrive: "11:00"},
	)
	_, err := catalog.New(net.Connections())
	assert.ErrorIs(t, err, catalog.ErrDuplicateRoute)

	_, err = catalog.New([]*domain.Connection{nil})
	assert.Error(t, err)
}

func TestCatalog_SearchPreservesOrder(t *testing.T) {
	cat := tests.Europe(t).Catalog()
	assert.Equal(t, 6, cat.Len())

	fromCologne := cat.Search(func(c *domain.Connection) bool { return c.Departure.City.Name == "Cologne" })
	assert.Equal(t, []string{"CB1", "CB2", "CP1"}, routes(fromCologne))

	none := cat.Search(func(*domain.Connection) bool { return false })
	assert.Empty(t, none)
}

func TestCatalog_MatchUsesDepartureIndex(t *testing.T) {
	cat := tests.Europe(t).Catalog()

	got := cat.Match(domain.SearchCriteria{DepartureCity: "Cologne", ArrivalCity: "Berlin"})
	assert.Equal(t, []string{"CB1", "CB2"}, routes(got))

	got = cat.Match(domain.SearchCriteria{PreferredTrain: "TGV"})
	assert.Equal(t, []string{"PL1", "LM1"}, routes(got))

	assert.Empty(t, cat.Match(domain.SearchCriteria{DepartureCity: "Nowhere"}))
}

func TestCatalog_Trip(t *testing.T) {
	cat := tests.Europe(t).Catalog()

	trip, err := cat.Trip("PC1", "CB1")
	require.NoError(t, err)
	assert.Equal(t, "PC1+CB1", trip.ID())

	_, err = cat.Trip("PC1", "XX")
	assert.ErrorIs(t, err, catalog.ErrUnknownRoute)

	_, err = cat.Trip("PC1", "PL1")
	assert.ErrorIs(t, err, domain.ErrBrokenChain)
}

func TestCatalog_CitiesAndTrains(t *testing.T) {
	cat := tests.Europe(t).Catalog()
	assert.Equal(t, []string{"Berlin", "Cologne", "Lyon", "Marseille", "Paris"}, cat.Cities())
	assert.Equal(t, []string{"ICE", "TGV", "Thalys"}, cat.TrainTypes())

	c, ok := cat.Route("LM1")
	require.True(t, ok)
	assert.Equal(t, "Marseille", c.Arrival.City.Name)
}
