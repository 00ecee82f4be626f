package spot

import (
	"fmt"
	"sort"
	"time"

	"github.com/rnovacek/czspot-go/hours"
)

// PriceSeries holds one day's normalized points (or a joined two-day
// window), sorted ascending by timestamp with unique keys. The zero value
// is a valid empty series meaning "no data published yet".
type PriceSeries struct {
	points []PricePoint
}

// NewSeries builds a series from points in any order. When two points
// share a timestamp the later one in the input wins, matching upsert
// semantics of a refetch.
func NewSeries(points []PricePoint) PriceSeries {
	byAt := make(map[time.Time]PricePoint, len(points))
	for _, p := range points {
		byAt[p.At] = p
	}
	unique := make([]PricePoint, 0, len(byAt))
	for _, p := range byAt {
		unique = append(unique, p)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].At.Before(unique[j].At) })
	return PriceSeries{points: unique}
}

func (s PriceSeries) Len() int {
	return len(s.points)
}

func (s PriceSeries) IsEmpty() bool {
	return len(s.points) == 0
}

// Points returns the ordered points. Callers must treat the slice as
// read-only.
func (s PriceSeries) Points() []PricePoint {
	return s.points
}

// At returns the point covering t, found by truncating t to the top of
// its hour.
func (s PriceSeries) At(t time.Time) (PricePoint, bool) {
	want := hours.HourStart(t)
	for _, p := range s.points {
		if p.At.Equal(want) {
			return p, true
		}
	}
	return PricePoint{}, false
}

// AtHour returns the point with the given 1-based hour index, counted
// from the start of the series.
func (s PriceSeries) AtHour(hourIndex int) (PricePoint, bool) {
	if hourIndex < 1 || hourIndex > len(s.points) {
		return PricePoint{}, false
	}
	return s.points[hourIndex-1], true
}

func (s PriceSeries) First() (PricePoint, bool) {
	if s.IsEmpty() {
		return PricePoint{}, false
	}
	return s.points[0], true
}

func (s PriceSeries) Last() (PricePoint, bool) {
	if s.IsEmpty() {
		return PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// Concat joins this series with a later one, e.g. today with tomorrow for
// queries that may straddle midnight. Timestamps must keep strictly
// increasing across the boundary or ErrNonContiguousSeries is returned.
func (s PriceSeries) Concat(other PriceSeries) (PriceSeries, error) {
	if s.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return s, nil
	}

	last := s.points[len(s.points)-1]
	first := other.points[0]
	if !last.At.Before(first.At) {
		return PriceSeries{}, fmt.Errorf("%w: %s does not precede %s",
			ErrNonContiguousSeries, last.At, first.At)
	}

	joined := make([]PricePoint, 0, len(s.points)+len(other.points))
	joined = append(joined, s.points...)
	joined = append(joined, other.points...)
	return PriceSeries{points: joined}, nil
}
