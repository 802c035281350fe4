package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail/internal/domain"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]domain.Weekday{
		"MONDAY": domain.Monday,
		"sunday": domain.Sunday,
		"Wed":    domain.Wednesday,
		" fri ":  domain.Friday,
	}
	for in, want := range cases {
		got, err := domain.ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "Mo", "Funday", "Mond"} {
		_, err := domain.ParseWeekday(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownWeekday, bad)
	}
}

func TestWeekday_NextWrapsSunday(t *testing.T) {
	assert.Equal(t, domain.Monday, domain.Sunday.Next())
	assert.Equal(t, domain.Saturday, domain.Friday.Next())
	assert.Equal(t, "Thu", domain.Thursday.Abbrev())
}

func TestDaySet_Shift(t *testing.T) {
	assert.Equal(t, domain.NewDaySet(domain.Monday), domain.NewDaySet(domain.Sunday).Shift())
	assert.Equal(t, domain.EveryDay, domain.EveryDay.Shift())
	assert.Equal(t,
		domain.NewDaySet(domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday, domain.Saturday),
		domain.Weekdays.Shift())
}

func TestDaySet_Subset(t *testing.T) {
	mon := domain.NewDaySet(domain.Monday)
	assert.True(t, mon.IsSubsetOf(domain.EveryDay))
	assert.True(t, domain.DaySet(0).IsSubsetOf(mon))
	assert.False(t, domain.Weekend.IsSubsetOf(domain.Weekdays))
}

func TestDaySet_Describe(t *testing.T) {
	assert.Equal(t, "Daily", domain.EveryDay.Describe())
	assert.Equal(t, "Weekdays (Mon-Fri)", domain.Weekdays.Describe())
	assert.Equal(t, "Weekends (Sat-Sun)", domain.Weekend.Describe())
	assert.Equal(t, "Mon, Wed", domain.NewDaySet(domain.Wednesday, domain.Monday).Describe())
	assert.Equal(t, "MONDAY,WEDNESDAY", domain.NewDaySet(domain.Wednesday, domain.Monday).String())
}

func TestParseDaySet(t *testing.T) {
	set, err := domain.ParseDaySet("MONDAY, fri")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDaySet(domain.Monday, domain.Friday), set)

	set, err = domain.ParseDaySet("")
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())

	_, err = domain.ParseDaySet("MONDAY,XYZ")
	assert.ErrorIs(t, err, domain.ErrUnknownWeekday)
}
