package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/domain"
	"rail/internal/service"
	"rail/internal/tests"
)

func tripIDs(trips []*domain.Trip) []string {
	out := make([]string, len(trips))
	for i, t := range trips {
		out[i] = t.ID()
	}
	return out
}

func newSearch(t *testing.T, net *tests.Network, maxLegs int) *service.SearchService {
	t.Helper()
	return service.NewSearchService(net.Catalog(), maxLegs, nil)
}

func TestSearch_DirectConnectionWins(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trips, err := svc.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Paris", ArrivalCity: "Cologne"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PC1"}, tripIDs(trips))
	assert.Equal(t, 4*time.Hour, trips[0].Duration())
}

func TestSearch_TwoLegTransfer(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trips, err := svc.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Paris", ArrivalCity: "Berlin"})
	require.NoError(t, err)

	// CB2 leaves ten minutes after PC1 arrives, too tight to make.
	assert.Equal(t, []string{"PC1+CB1"}, tripIDs(trips))
	assert.Equal(t, 9*time.Hour, trips[0].Duration())
	assert.Equal(t, []time.Duration{30 * time.Minute}, trips[0].TransferTimes())
	assert.True(t, trips[0].FirstClassFare().Equal(decimal.RequireFromString("188.50")))
}

func TestSearch_LatestArrivalFiltersTransfers(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trips, err := svc.Search(context.Background(), domain.SearchCriteria{
		DepartureCity: "Paris",
		ArrivalCity:   "Berlin",
		LatestArrival: domain.ClockPtr(domain.MustClock(18, 30)),
	})
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestSearch_OneEndpointOnlyReturnsDirectMatches(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trips, err := svc.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PL1", "PC1"}, tripIDs(trips))

	trips, err = svc.Search(context.Background(), domain.SearchCriteria{ArrivalCity: "Nowhere"})
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestSearch_NoCatalog(t *testing.T) {
	svc := service.NewSearchService(nil, 3, nil)
	_, err := svc.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Paris"})
	assert.ErrorIs(t, err, service.ErrCatalogNotLoaded)
}

func TestSearch_LegLimit(t *testing.T) {
	net := tests.NewNetwork(t).Add(
		tests.Leg{Route: "AB", From: "A", To: "B", Depart: "08:00", Arrive: "09:00"},
		tests.Leg{Route: "BC", From: "B", To: "C", Depart: "09:30", Arrive: "10:30"},
		tests.Leg{Route: "CD", From: "C", To: "D", Depart: "11:00", Arrive: "12:00"},
	)
	criteria := domain.SearchCriteria{DepartureCity: "A", ArrivalCity: "D"}

	trips, err := newSearch(t, net, 3).Search(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"AB+BC+CD"}, tripIDs(trips))
	assert.Equal(t, 4*time.Hour, trips[0].Duration())

	for _, limit := range []int{1, 2} {
		trips, err := newSearch(t, net, limit).Search(context.Background(), criteria)
		require.NoError(t, err)
		assert.Empty(t, trips, "max legs %d", limit)
	}
}

func TestSearch_InvalidLegLimitFallsBack(t *testing.T) {
	assert.Equal(t, service.DefaultMaxLegs, service.NewSearchService(nil, 0, nil).MaxLegs())
	assert.Equal(t, service.DefaultMaxLegs, service.NewSearchService(nil, 7, nil).MaxLegs())
	assert.Equal(t, 2, service.NewSearchService(nil, 2, nil).MaxLegs())
}

func TestSearch_TransferAcrossMidnight(t *testing.T) {
	net := tests.NewNetwork(t).Add(
		tests.Leg{Route: "X1", From: "A", To: "B", Depart: "20:00", Arrive: "23:50", Days: domain.NewDaySet(domain.Monday)},
		tests.Leg{Route: "Y1", From: "B", To: "C", Depart: "00:20", Arrive: "02:00"},
	)

	trips, err := newSearch(t, net, 3).Search(context.Background(), domain.SearchCriteria{DepartureCity: "A", ArrivalCity: "C"})
	require.NoError(t, err)
	require.Equal(t, []string{"X1+Y1"}, tripIDs(trips))
	assert.Equal(t, 6*time.Hour, trips[0].Duration())
	assert.Equal(t, []time.Duration{30 * time.Minute}, trips[0].TransferTimes())
}

func TestSearch_NeverRevisitsACity(t *testing.T) {
	net := tests.NewNetwork(t).Add(
		tests.Leg{Route: "AB", From: "A", To: "B", Depart: "08:00", Arrive: "09:00"},
		tests.Leg{Route: "BA", From: "B", To: "A", Depart: "09:30", Arrive: "10:30"},
		tests.Leg{Route: "AC", From: "A", To: "C", Depart: "11:00", Arrive: "12:00"},
		tests.Leg{Route: "BC", From: "B", To: "C", Depart: "13:00", Arrive: "14:00"},
	)

	trips, err := newSearch(t, net, 3).Search(context.Background(), domain.SearchCriteria{DepartureCity: "A", ArrivalCity: "C"})
	require.NoError(t, err)
	// AC is direct, so transfers are not explored at all.
	assert.Equal(t, []string{"AC"}, tripIDs(trips))

	trips, err = newSearch(t, net, 3).Search(context.Background(), domain.SearchCriteria{
		DepartureCity:     "A",
		ArrivalCity:       "C",
		EarliestDeparture: domain.ClockPtr(domain.MustClock(7, 0)),
		PreferredTrain:    "ICE",
		LatestArrival:     domain.ClockPtr(domain.MustClock(11, 30)),
	})
	require.NoError(t, err)
	// AC arrives too late; AB+BA+AC would revisit A; AB+BC arrives at 14:00.
	assert.Empty(t, trips)
}

func TestSearch_TravelDaysCarryToFollowUpLegs(t *testing.T) {
	net := tests.NewNetwork(t).Add(
		tests.Leg{Route: "AB", From: "A", To: "B", Depart: "22:00", Arrive: "01:00", NextDay: true, Days: domain.NewDaySet(domain.Friday)},
		tests.Leg{Route: "BC1", From: "B", To: "C", Depart: "06:00", Arrive: "08:00", Days: domain.Weekdays},
		tests.Leg{Route: "BC2", From: "B", To: "C", Depart: "07:00", Arrive: "09:00", Days: domain.Weekend},
	)

	trips, err := newSearch(t, net, 3).Search(context.Background(), domain.SearchCriteria{
		DepartureCity: "A",
		ArrivalCity:   "C",
		TravelDays:    domain.NewDaySet(domain.Friday),
	})
	require.NoError(t, err)
	// Friday night departure lands on Saturday, where only BC2 runs.
	assert.Equal(t, []string{"AB+BC2"}, tripIDs(trips))
}

func TestSearch_FareCapsApplyToEveryLeg(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trips, err := svc.Search(context.Background(), domain.SearchCriteria{
		DepartureCity:  "Paris",
		ArrivalCity:    "Berlin",
		MaxSecondClass: domain.Cap(decimal.NewFromInt(55)),
	})
	require.NoError(t, err)
	// CB1 costs 59.50 in second class.
	assert.Empty(t, trips)
}

func TestSearch_SwapCatalog(t *testing.T) {
	svc := service.NewSearchService(nil, 3, nil)
	assert.Nil(t, svc.Catalog())

	svc.SetCatalog(tests.Europe(t).Catalog())
	trips, err := svc.Search(context.Background(), domain.SearchCriteria{DepartureCity: "Lyon", ArrivalCity: "Marseille"})
	require.NoError(t, err)
	assert.Equal(t, []string{"LM1"}, tripIDs(trips))
}

func TestResolveTrip(t *testing.T) {
	svc := newSearch(t, tests.Europe(t), 3)

	trip, err := svc.ResolveTrip("PC1+CB1")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", trip.Destination().Name)

	for _, bad := range []string{"", " ", "PC1+", "NOPE", "PC1+LM1", "PL1+LM1+PL1+LM1"} {
		_, err := svc.ResolveTrip(bad)
		assert.ErrorIs(t, err, service.ErrInvalidTripID, "trip id %q", bad)
	}
}
