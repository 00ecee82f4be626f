package spot

import (
	"sort"
	"time"
)

// RankedHour pairs a point with its 1-based position when the series is
// sorted by ascending price, rank 1 being the cheapest hour.
type RankedHour struct {
	At    time.Time
	Price float64
	Rank  int
}

// RankAll ranks every hour of the series by price. Ties are broken by the
// earlier timestamp, so the result is always a permutation of 1..Len with
// no gaps. The returned slice is ordered by rank. An empty series yields
// an empty slice.
func RankAll(s PriceSeries) []RankedHour {
	ranked := make([]RankedHour, 0, s.Len())
	for _, p := range s.points {
		ranked = append(ranked, RankedHour{At: p.At, Price: p.Price})
	}

	// Input is chronological, so a stable sort by price alone gives the
	// (price, timestamp) order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Price < ranked[j].Price })

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankOf returns the rank of the hour covering t, or false when the
// series has no point for it.
func RankOf(s PriceSeries, t time.Time) (int, bool) {
	p, ok := s.At(t)
	if !ok {
		return 0, false
	}
	for _, r := range RankAll(s) {
		if r.At.Equal(p.At) {
			return r.Rank, true
		}
	}
	return 0, false
}
