package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/domain"
)

type legDef struct {
	route    string
	from, to string
	dep, arr string
	nextDay  bool
	days     domain.DaySet
	first    string
	second   string
	train    string
}

func buildLeg(t *testing.T, reg *domain.Registry, s legDef) *domain.Connection {
	t.Helper()
	if s.days == 0 {
		s.days = domain.EveryDay
	}
	if s.train == "" {
		s.train = "ICE"
	}
	if s.first == "" {
		s.first = "100"
	}
	if s.second == "" {
		s.second = "50"
	}
	from, err := reg.City(s.from)
	require.NoError(t, err)
	to, err := reg.City(s.to)
	require.NoError(t, err)
	train, err := reg.TrainType(s.train)
	require.NoError(t, err)
	dep, err := domain.ParseClock(s.dep)
	require.NoError(t, err)
	arr, err := domain.ParseClock(s.arr)
	require.NoError(t, err)
	sched, err := domain.NewTrainSchedule(s.days)
	require.NoError(t, err)
	rates, err := domain.NewTicketRates(decimal.RequireFromString(s.first), decimal.RequireFromString(s.second))
	require.NoError(t, err)

	c, err := domain.NewConnection(s.route, train, sched, rates,
		domain.TrainStop{City: from, Time: dep},
		domain.TrainStop{City: to, Time: arr, NextDay: s.nextDay})
	require.NoError(t, err)
	return c
}

func TestRegistry_InternsByName(t *testing.T) {
	reg := domain.NewRegistry()
	a, err := reg.City("Paris")
	require.NoError(t, err)
	b, err := reg.City(" Paris ")
	require.NoError(t, err)
	c, err := reg.City("Berlin")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, reg.Cities())

	_, err = reg.City("  ")
	assert.ErrorIs(t, err, domain.ErrEmptyCityName)
	_, err = reg.TrainType("")
	assert.ErrorIs(t, err, domain.ErrEmptyTrainType)
}

func TestRegistries_AreIndependent(t *testing.T) {
	a, _ := domain.NewRegistry().City("Rome")
	_, _ = domain.NewRegistry().City("Milan")
	b, _ := domain.NewRegistry().City("Rome")
	assert.Equal(t, a, b)
	assert.Equal(t, domain.CityID(1), a.ID)
}

func TestNewTrainSchedule_RejectsEmpty(t *testing.T) {
	_, err := domain.NewTrainSchedule(0)
	assert.ErrorIs(t, err, domain.ErrEmptySchedule)
}

func TestNewTicketRates_RejectsNegative(t *testing.T) {
	_, err := domain.NewTicketRates(decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNegativeFare)

	r, err := domain.NewTicketRates(decimal.RequireFromString("12.50"), decimal.RequireFromString("7.25"))
	require.NoError(t, err)
	assert.True(t, r.For(domain.FirstClass).Equal(decimal.RequireFromString("12.5")))
	assert.True(t, r.For(domain.SecondClass).Equal(decimal.RequireFromString("7.25")))
}

func TestParseServiceClass(t *testing.T) {
	c, err := domain.ParseServiceClass("First Class")
	require.NoError(t, err)
	assert.Equal(t, domain.FirstClass, c)
	c, err = domain.ParseServiceClass("2")
	require.NoError(t, err)
	assert.Equal(t, domain.SecondClass, c)
	_, err = domain.ParseServiceClass("business")
	assert.ErrorIs(t, err, domain.ErrUnknownServiceClass)
}

func TestParseClock(t *testing.T) {
	c, err := domain.ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, domain.MustClock(9, 5), c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"24:00", "9h05", "", "12:60"} {
		_, err := domain.ParseClock(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidClock, bad)
	}
}

func TestNewConnection_NormalizesWrappedArrival(t *testing.T) {
	reg := domain.NewRegistry()
	c := buildLeg(t, reg, legDef{route: "N1", from: "Paris", to: "Munich", dep: "23:50", arr: "00:20"})
	assert.True(t, c.Arrival.NextDay)
	assert.Equal(t, 30*time.Minute, c.Duration())

	d := buildLeg(t, reg, legDef{route: "D1", from: "Paris", to: "Lyon", dep: "08:00", arr: "10:30"})
	assert.False(t, d.Arrival.NextDay)
	assert.Equal(t, 150*time.Minute, d.Duration())
}

func TestNewConnection_Validation(t *testing.T) {
	reg := domain.NewRegistry()
	paris, _ := reg.City("Paris")
	lyon, _ := reg.City("Lyon")
	ice, _ := reg.TrainType("ICE")
	sched, _ := domain.NewTrainSchedule(domain.EveryDay)
	dep := domain.TrainStop{City: paris, Time: domain.MustClock(8, 0)}
	arr := domain.TrainStop{City: lyon, Time: domain.MustClock(10, 0)}

	_, err := domain.NewConnection(" ", ice, sched, domain.TicketRates{}, dep, arr)
	assert.ErrorIs(t, err, domain.ErrEmptyRouteID)

	_, err = domain.NewConnection("R1", domain.TrainType{}, sched, domain.TicketRates{}, dep, arr)
	assert.ErrorIs(t, err, domain.ErrEmptyTrainType)

	_, err = domain.NewConnection("R1", ice, domain.TrainSchedule{}, domain.TicketRates{}, dep, arr)
	assert.ErrorIs(t, err, domain.ErrEmptySchedule)

	_, err = domain.NewConnection("R1", ice, sched, domain.TicketRates{}, domain.TrainStop{Time: 10}, arr)
	assert.ErrorIs(t, err, domain.ErrEmptyCityName)

	_, err = domain.NewConnection("R1", ice, sched, domain.TicketRates{FirstClass: decimal.NewFromInt(-3)}, dep, arr)
	assert.ErrorIs(t, err, domain.ErrNegativeFare)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", domain.FormatDuration(45*time.Minute))
	assert.Equal(t, "2h 0m", domain.FormatDuration(2*time.Hour))
	assert.Equal(t, "1d 0h 5m", domain.FormatDuration(24*time.Hour+5*time.Minute))
}
