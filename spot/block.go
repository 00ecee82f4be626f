package spot

import (
	"fmt"
	"time"
)

// CheapestBlock is the contiguous run of hours with the lowest total
// price found in a series. End is exclusive, the hour after the last
// point of the block.
type CheapestBlock struct {
	Length int
	Start  time.Time
	End    time.Time
	Min    float64
	Max    float64
	Mean   float64
	Sum    float64
}

// Contains reports whether t falls within [Start, End).
func (b CheapestBlock) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// FindCheapestBlock slides a window of `length` consecutive points over
// the series and returns the one with the minimum sum, preferring the
// earliest start on ties. A length longer than the series collapses to a
// single whole-series window, so L=24 keeps working on a 23-hour DST day.
// The scan keeps a running sum, one pass regardless of length.
func FindCheapestBlock(s PriceSeries, length int) (CheapestBlock, error) {
	if length < 1 {
		return CheapestBlock{}, fmt.Errorf("%w: got %d", ErrInvalidBlockLength, length)
	}
	if s.IsEmpty() {
		return CheapestBlock{}, ErrEmptySeries
	}

	if length > s.Len() {
		length = s.Len()
	}

	var sum float64
	for _, p := range s.points[:length] {
		sum += p.Price
	}

	bestSum := sum
	bestStart := 0
	for i := length; i < len(s.points); i++ {
		sum += s.points[i].Price - s.points[i-length].Price
		if sum < bestSum {
			bestSum = sum
			bestStart = i - length + 1
		}
	}

	window := PriceSeries{points: s.points[bestStart : bestStart+length]}
	lo, err := Min(window)
	if err != nil {
		return CheapestBlock{}, err
	}
	hi, err := Max(window)
	if err != nil {
		return CheapestBlock{}, err
	}

	lastAt := window.points[length-1].At
	return CheapestBlock{
		Length: length,
		Start:  window.points[0].At,
		End:    lastAt.Add(time.Hour),
		Min:    lo.Price,
		Max:    hi.Price,
		Mean:   bestSum / float64(length),
		Sum:    bestSum,
	}, nil
}
