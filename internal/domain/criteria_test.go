package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rail/internal/domain"
)

func TestMatches_EmptyCriteriaMatchesEverything(t *testing.T) {
	reg := domain.NewRegistry()
	legs := []*domain.Connection{
		buildLeg(t, reg, legDef{route: "A", from: "Paris", to: "Lyon", dep: "08:00", arr: "10:00"}),
		buildLeg(t, reg, legDef{route: "B", from: "Lyon", to: "Nice", dep: "23:00", arr: "01:00", days: domain.Weekend}),
		buildLeg(t, reg, legDef{route: "C", from: "Nice", to: "Rome", dep: "00:00", arr: "23:59", first: "0", second: "0"}),
	}
	for _, l := range legs {
		assert.True(t, domain.SearchCriteria{}.Matches(l), l.RouteID)
	}
}

func TestMatches_Fields(t *testing.T) {
	reg := domain.NewRegistry()
	c := buildLeg(t, reg, legDef{
		route: "R1", from: "Paris", to: "Lyon", dep: "08:00", arr: "10:30",
		days: domain.Weekdays, train: "TGV", first: "80.00", second: "45.50",
	})

	cases := []struct {
		name     string
		criteria domain.SearchCriteria
		want     bool
	}{
		{"departure city", domain.SearchCriteria{DepartureCity: "Paris"}, true},
		{"wrong departure city", domain.SearchCriteria{DepartureCity: "Lyon"}, false},
		{"arrival city", domain.SearchCriteria{ArrivalCity: "Lyon"}, true},
		{"city names are exact", domain.SearchCriteria{ArrivalCity: "lyon"}, false},
		{"earliest departure equal", domain.SearchCriteria{EarliestDeparture: domain.ClockPtr(domain.MustClock(8, 0))}, true},
		{"earliest departure later", domain.SearchCriteria{EarliestDeparture: domain.ClockPtr(domain.MustClock(8, 1))}, false},
		{"latest arrival equal", domain.SearchCriteria{LatestArrival: domain.ClockPtr(domain.MustClock(10, 30))}, true},
		{"latest arrival earlier", domain.SearchCriteria{LatestArrival: domain.ClockPtr(domain.MustClock(10, 29))}, false},
		{"next day false", domain.SearchCriteria{NextDay: domain.BoolPtr(false)}, true},
		{"next day true", domain.SearchCriteria{NextDay: domain.BoolPtr(true)}, false},
		{"train", domain.SearchCriteria{PreferredTrain: "TGV"}, true},
		{"other train", domain.SearchCriteria{PreferredTrain: "ICE"}, false},
		{"day subset", domain.SearchCriteria{TravelDays: domain.NewDaySet(domain.Monday, domain.Friday)}, true},
		{"day not operated", domain.SearchCriteria{TravelDays: domain.NewDaySet(domain.Monday, domain.Saturday)}, false},
		{"first cap equal", domain.SearchCriteria{MaxFirstClass: domain.Cap(decimal.RequireFromString("80"))}, true},
		{"first cap below", domain.SearchCriteria{MaxFirstClass: domain.Cap(decimal.RequireFromString("79.99"))}, false},
		{"second cap independent of first", domain.SearchCriteria{MaxSecondClass: domain.Cap(decimal.RequireFromString("45.50"))}, true},
		{"second cap below", domain.SearchCriteria{MaxSecondClass: domain.Cap(decimal.RequireFromString("45.49"))}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.criteria.Matches(c))
		})
	}
}

func TestMatches_TravelDaysRequireSubset(t *testing.T) {
	reg := domain.NewRegistry()
	daily := buildLeg(t, reg, legDef{route: "D", from: "A", to: "B", dep: "08:00", arr: "09:00"})
	monOnly := buildLeg(t, reg, legDef{route: "M", from: "A", to: "B", dep: "08:00", arr: "09:00", days: domain.NewDaySet(domain.Monday)})

	for mask := 1; mask < 1<<8; mask++ {
		required := domain.DaySet(mask)
		if required&domain.EveryDay != required {
			continue
		}
		crit := domain.SearchCriteria{TravelDays: required}
		assert.True(t, crit.Matches(daily))
		assert.Equal(t, required.IsSubsetOf(monOnly.Days()), crit.Matches(monOnly), required.String())
	}
}

func TestMatches_LatestArrivalIgnoresNextDayFlag(t *testing.T) {
	reg := domain.NewRegistry()
	overnight := buildLeg(t, reg, legDef{route: "N", from: "A", to: "B", dep: "22:00", arr: "06:00"})
	crit := domain.SearchCriteria{LatestArrival: domain.ClockPtr(domain.MustClock(7, 0))}
	assert.True(t, crit.Matches(overnight))
}
