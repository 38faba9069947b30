package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveEmptySeries(t *testing.T) {
	assert.Equal(t, 0.0, New().Resolve(date(1992, time.April, 1)))

	var nilSeries *Series
	assert.Equal(t, 0.0, nilSeries.Resolve(date(1992, time.April, 1)))
}

func TestResolveExactMatch(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.January, 15): 1.5,
		date(1992, time.April, 15):   4.5,
	})
	assert.Equal(t, 4.5, s.Resolve(date(1992, time.April, 15)))
	assert.Equal(t, 1.5, s.Resolve(date(1992, time.January, 15)))
}

func TestResolveSinglePoint(t *testing.T) {
	s := FromMap(map[time.Time]float64{date(1992, time.June, 1): 7.25})
	assert.Equal(t, 7.25, s.Resolve(date(1990, time.January, 1)))
	assert.Equal(t, 7.25, s.Resolve(date(1999, time.December, 31)))
}

func TestResolveLinearInterpolation(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.January, 1): 0.0,
		date(1992, time.January, 3): 10.0,
	})
	assert.InDelta(t, 5.0, s.Resolve(date(1992, time.January, 2)), 1e-12)

	// quarter of the way through a four-day bracket
	s = FromMap(map[time.Time]float64{
		date(1992, time.March, 1): 8.0,
		date(1992, time.March, 5): 16.0,
	})
	assert.InDelta(t, 10.0, s.Resolve(date(1992, time.March, 2)), 1e-12)
}

func TestResolveBitReproducible(t *testing.T) {
	build := func() *Series {
		return FromMap(map[time.Time]float64{
			date(1992, time.January, 10): 0.137,
			date(1992, time.May, 3):      9.221,
			date(1992, time.November, 8): -2.5,
		})
	}
	q := date(1992, time.March, 17)
	require.Equal(t, build().Resolve(q), build().Resolve(q))
}

func TestResolveCyclicSameDayNextYear(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.January, 15): 1.0,
		date(1992, time.April, 15):   4.0,
		date(1992, time.October, 15): 10.0,
	})
	// one full year after a stored date, same day of year
	assert.Equal(t, 4.0, s.Resolve(date(1993, time.April, 15)))
	// and one full year before
	assert.Equal(t, 4.0, s.Resolve(date(1991, time.April, 15)))
}

func TestResolveCyclicWraparound(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.January, 15): 1.0,
		date(1992, time.April, 15):   4.0,
		date(1992, time.October, 15): 10.0,
	})
	// Dec 15 1992 is past the last sample; the cycle closes with a virtual
	// Jan 15 1993 copy of the first sample.
	got := s.Resolve(date(1992, time.December, 15))
	elapsed := float64(date(1992, time.December, 15).Sub(date(1992, time.October, 15)))
	span := float64(date(1993, time.January, 15).Sub(date(1992, time.October, 15)))
	want := 10.0 + elapsed/span*(1.0-10.0)
	assert.InDelta(t, want, got, 1e-12)
}

func TestResolveCyclicInterpolatesWithinShiftedYear(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.January, 1): 0.0,
		date(1992, time.January, 3): 10.0,
	})
	assert.InDelta(t, 5.0, s.Resolve(date(1995, time.January, 2)), 1e-12)
}

func TestResolveCyclicLeapDayMapsToFeb28(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1991, time.January, 1):   1.0,
		date(1991, time.February, 28): 2.0,
		date(1991, time.December, 1):  12.0,
	})
	// 1992-02-29 shifts into non-leap 1991 as Feb 28
	assert.Equal(t, 2.0, s.Resolve(date(1992, time.February, 29)))
}

func TestResolveCyclicPicksNearerBoundaryYear(t *testing.T) {
	s := FromMap(map[time.Time]float64{
		date(1992, time.October, 1): 10.0,
		date(1993, time.March, 1):   3.0,
		date(1993, time.June, 1):    6.0,
	})
	// Query just after the end shifts into 1993 and hits the stored sample.
	assert.Equal(t, 6.0, s.Resolve(date(1994, time.June, 1)))
	// Query well before the start shifts into 1992; 1992 holds a single
	// sample, which is returned outright.
	assert.Equal(t, 10.0, s.Resolve(date(1991, time.January, 1)))
}

func TestSetReplacesDuplicateTimestamp(t *testing.T) {
	s := New()
	s.Set(date(1992, time.May, 1), 1.0)
	s.Set(date(1992, time.May, 1), 2.0)
	require.Equal(t, 1, s.Len())
	v, ok := s.At(date(1992, time.May, 1))
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestPointsSortedFromUnorderedInput(t *testing.T) {
	s := FromPoints([]Point{
		{Time: date(1992, time.June, 1), Value: 6},
		{Time: date(1992, time.January, 1), Value: 1},
		{Time: date(1992, time.March, 1), Value: 3},
	})
	pts := s.Points()
	require.Len(t, pts, 3)
	assert.True(t, pts[0].Time.Before(pts[1].Time))
	assert.True(t, pts[1].Time.Before(pts[2].Time))
}
