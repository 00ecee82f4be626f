package spot

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

// bruteForceCheapest is the reference O(N*L) implementation the sliding
// window must agree with.
func bruteForceCheapest(s PriceSeries, length int) (start int, sum float64) {
	points := s.Points()
	if length > len(points) {
		length = len(points)
	}
	best := math.Inf(1)
	bestStart := 0
	for i := 0; i+length <= len(points); i++ {
		var windowSum float64
		for _, p := range points[i : i+length] {
			windowSum += p.Price
		}
		if windowSum < best {
			best = windowSum
			bestStart = i
		}
	}
	return bestStart, best
}

func TestFindCheapestBlockErrors(t *testing.T) {
	s := mustSeries(t, baseDay, 1, 2, 3)

	if _, err := FindCheapestBlock(s, 0); !errors.Is(err, ErrInvalidBlockLength) {
		t.Errorf("length 0 expected ErrInvalidBlockLength, got %v", err)
	}
	if _, err := FindCheapestBlock(s, -3); !errors.Is(err, ErrInvalidBlockLength) {
		t.Errorf("negative length expected ErrInvalidBlockLength, got %v", err)
	}
	if _, err := FindCheapestBlock(PriceSeries{}, 2); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty series expected ErrEmptySeries, got %v", err)
	}
}

func TestFindCheapestBlockSimple(t *testing.T) {
	// Prices from a real looking day, the cheapest 3-hour run starts at
	// hour 8 (3+1+2).
	prices := []float64{10, 12, 14, 11, 13, 15, 9, 11, 3, 1, 2, 4, 10, 12, 14, 13, 14, 19, 17, 18, 14, 15, 17, 11}
	s := mustSeries(t, baseDay, prices...)

	block, err := FindCheapestBlock(s, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !block.Start.Equal(baseDay.Add(8 * time.Hour)) {
		t.Errorf("Start expected hour 8, got %v", block.Start)
	}
	if !block.End.Equal(baseDay.Add(11 * time.Hour)) {
		t.Errorf("End expected hour 11 (exclusive), got %v", block.End)
	}
	if block.Min != 1 || block.Max != 3 {
		t.Errorf("Min/Max expected 1/3, got %v/%v", block.Min, block.Max)
	}
	if block.Mean != 2 {
		t.Errorf("Mean expected 2, got %v", block.Mean)
	}
	if block.Sum != 6 {
		t.Errorf("Sum expected 6, got %v", block.Sum)
	}
}

func TestFindCheapestBlockTieBreakEarliest(t *testing.T) {
	// Two 2-hour windows sum to 3, the earlier one must win.
	s := mustSeries(t, baseDay, 1, 2, 5, 2, 1)
	block, err := FindCheapestBlock(s, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !block.Start.Equal(baseDay) {
		t.Errorf("tie-break expected start at hour 0, got %v", block.Start)
	}
}

func TestFindCheapestBlockLongerThanSeries(t *testing.T) {
	s := mustSeries(t, baseDay, 4, 2, 6)
	block, err := FindCheapestBlock(s, 24)
	if err != nil {
		t.Fatalf("length > series must fall back to the whole series: %v", err)
	}
	if block.Length != 3 {
		t.Errorf("Length expected 3, got %d", block.Length)
	}
	if !block.Start.Equal(baseDay) || !block.End.Equal(baseDay.Add(3*time.Hour)) {
		t.Errorf("expected whole-series window, got [%v, %v)", block.Start, block.End)
	}
	if block.Mean != 4 {
		t.Errorf("Mean expected 4, got %v", block.Mean)
	}
}

func TestFindCheapestBlockAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 20 + rng.Intn(7) // 20..26 points
		prices := make([]float64, n)
		for i := range prices {
			// Small integer range produces duplicate values often.
			prices[i] = float64(rng.Intn(10))
		}
		s := mustSeries(t, baseDay, prices...)
		length := 1 + rng.Intn(n)

		block, err := FindCheapestBlock(s, length)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}

		wantStart, wantSum := bruteForceCheapest(s, length)
		if !block.Start.Equal(baseDay.Add(time.Duration(wantStart) * time.Hour)) {
			t.Errorf("run %d (n=%d, l=%d): start expected hour %d, got %v",
				run, n, length, wantStart, block.Start)
		}
		if math.Abs(block.Sum-wantSum) > 1e-9 {
			t.Errorf("run %d (n=%d, l=%d): sum expected %v, got %v",
				run, n, length, wantSum, block.Sum)
		}

		// The winning mean is never beaten by any other window.
		points := s.Points()
		for i := 0; i+block.Length <= len(points); i++ {
			var sum float64
			for _, p := range points[i : i+block.Length] {
				sum += p.Price
			}
			if sum/float64(block.Length) < block.Mean-1e-9 {
				t.Errorf("run %d: window at %d has lower mean than the winner", run, i)
			}
		}
	}
}

func TestBlockContains(t *testing.T) {
	block := CheapestBlock{
		Start: baseDay.Add(2 * time.Hour),
		End:   baseDay.Add(5 * time.Hour),
	}

	tests := []struct {
		name     string
		at       time.Time
		expected bool
	}{
		{"before start", baseDay.Add(time.Hour), false},
		{"at start", baseDay.Add(2 * time.Hour), true},
		{"inside", baseDay.Add(3*time.Hour + 30*time.Minute), true},
		{"last hour", baseDay.Add(4*time.Hour + 59*time.Minute), true},
		{"at end is exclusive", baseDay.Add(5 * time.Hour), false},
		{"after end", baseDay.Add(6 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := block.Contains(tt.at); got != tt.expected {
				t.Errorf("Contains(%v) expected %v, got %v", tt.at, tt.expected, got)
			}
		})
	}
}
