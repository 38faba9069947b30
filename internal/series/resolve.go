package series

import (
	"sort"
	"time"
)

// Resolve maps a query timestamp onto a value of the series.
//
// Resolution order:
//   - empty series: 0.0 (the "no forcing" baseline)
//   - exact timestamp match: the stored value
//   - single-sample series: that sample, whatever the query
//   - query inside [first, last]: linear interpolation between the
//     bracketing samples
//   - query outside the covered range: cyclic annual resolution, see
//     resolveCyclic
//
// Resolve is a pure function of the series contents and the query; equal
// inputs always produce bit-identical results.
func (s *Series) Resolve(t time.Time) float64 {
	if s.Len() == 0 {
		return 0.0
	}
	if v, ok := s.At(t); ok {
		return v
	}
	if s.Len() == 1 {
		return s.points[0].Value
	}
	if !t.Before(s.First().Time) && !t.After(s.Last().Time) {
		return interpolate(s.points, t)
	}
	return resolveCyclic(s.points, t)
}

// interpolate assumes pts is sorted and t lies within [pts[0], pts[last]].
func interpolate(pts []Point, t time.Time) float64 {
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time.After(t) })
	if i == 0 {
		return pts[0].Value
	}
	if i == len(pts) {
		return pts[len(pts)-1].Value
	}
	left, right := pts[i-1], pts[i]
	span := right.Time.Sub(left.Time)
	if span <= 0 {
		// degenerate zero-duration bracket
		return left.Value
	}
	frac := float64(t.Sub(left.Time)) / float64(span)
	return left.Value + frac*(right.Value-left.Value)
}

// resolveCyclic handles queries outside the series coverage by treating the
// series as annually periodic. The query is shifted by whole years into the
// calendar year of the nearer series boundary, resolution is restricted to
// that year's samples (or all samples if the year holds none), and the cycle
// is closed with a virtual copy of the first sample advanced by one year so
// that wraparound across New Year interpolates cleanly.
func resolveCyclic(pts []Point, t time.Time) float64 {
	first, last := pts[0].Time, pts[len(pts)-1].Time
	targetYear := first.Year()
	if absDuration(t.Sub(last)) < absDuration(first.Sub(t)) {
		targetYear = last.Year()
	}
	q := shiftIntoYear(t, targetYear)

	yearPts := pts[:0:0]
	for _, p := range pts {
		if p.Time.Year() == targetYear {
			yearPts = append(yearPts, p)
		}
	}
	if len(yearPts) == 0 {
		yearPts = pts
	}
	if len(yearPts) == 1 {
		return yearPts[0].Value
	}

	head := yearPts[0]
	if q.Before(head.Time) {
		q = shiftIntoYear(q, q.Year()+1)
	}
	cycle := make([]Point, 0, len(yearPts)+1)
	cycle = append(cycle, yearPts...)
	cycle = append(cycle, Point{
		Time:  shiftIntoYear(head.Time, head.Time.Year()+1),
		Value: head.Value,
	})
	// The virtual closing sample may land inside the range when the
	// fallback kept samples from several years.
	sort.Slice(cycle, func(i, j int) bool { return cycle[i].Time.Before(cycle[j].Time) })
	for _, p := range cycle {
		if p.Time.Equal(q) {
			return p.Value
		}
	}
	return interpolate(cycle, q)
}

// shiftIntoYear moves t into the given calendar year keeping its month, day
// and time of day. Feb 29 maps onto Feb 28 when the target year is not a
// leap year.
func shiftIntoYear(t time.Time, year int) time.Time {
	month, day := t.Month(), t.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
