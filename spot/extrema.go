package spot

// Min returns the cheapest point of a non-empty series. When several
// points share the minimum price the earliest one wins.
func Min(s PriceSeries) (PricePoint, error) {
	return extremum(s, func(candidate, best float64) bool { return candidate < best })
}

// Max returns the most expensive point of a non-empty series, earliest
// timestamp on ties.
func Max(s PriceSeries) (PricePoint, error) {
	return extremum(s, func(candidate, best float64) bool { return candidate > best })
}

func extremum(s PriceSeries, better func(candidate, best float64) bool) (PricePoint, error) {
	if s.IsEmpty() {
		return PricePoint{}, ErrEmptySeries
	}

	best := s.points[0]
	for _, p := range s.points[1:] {
		// Strict comparison keeps the earliest point on equal prices.
		if better(p.Price, best.Price) {
			best = p
		}
	}
	return best, nil
}
