package series

import (
	"sort"
	"time"
)

// Point is a single timestamped sample.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a sparse time series with unique timestamps, kept in
// chronological order. The zero value is an empty, usable series.
type Series struct {
	points []Point
}

func New() *Series {
	return &Series{}
}

// FromMap builds a series from a timestamp->value map.
func FromMap(m map[time.Time]float64) *Series {
	s := &Series{points: make([]Point, 0, len(m))}
	for t, v := range m {
		s.points = append(s.points, Point{Time: t, Value: v})
	}
	sort.Slice(s.points, func(i, j int) bool { return s.points[i].Time.Before(s.points[j].Time) })
	return s
}

// FromPoints builds a series from a sample slice; the input is copied and
// sorted, later duplicates of a timestamp replace earlier ones.
func FromPoints(pts []Point) *Series {
	s := &Series{}
	for _, p := range pts {
		s.Set(p.Time, p.Value)
	}
	return s
}

// Set inserts a sample, replacing any existing sample at the same instant.
func (s *Series) Set(t time.Time, v float64) {
	i := s.search(t)
	if i < len(s.points) && s.points[i].Time.Equal(t) {
		s.points[i].Value = v
		return
	}
	s.points = append(s.points, Point{})
	copy(s.points[i+1:], s.points[i:])
	s.points[i] = Point{Time: t, Value: v}
}

func (s *Series) search(t time.Time) int {
	return sort.Search(len(s.points), func(i int) bool { return !s.points[i].Time.Before(t) })
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

func (s *Series) Empty() bool { return s.Len() == 0 }

// At returns the exact-match sample for t, if present.
func (s *Series) At(t time.Time) (float64, bool) {
	if s == nil {
		return 0, false
	}
	i := s.search(t)
	if i < len(s.points) && s.points[i].Time.Equal(t) {
		return s.points[i].Value, true
	}
	return 0, false
}

// First returns the earliest sample. Valid only for non-empty series.
func (s *Series) First() Point { return s.points[0] }

// Last returns the latest sample. Valid only for non-empty series.
func (s *Series) Last() Point { return s.points[len(s.points)-1] }

// Points returns a copy of the ordered samples.
func (s *Series) Points() []Point {
	if s == nil {
		return nil
	}
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}
