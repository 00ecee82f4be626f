package calc

import (
	"testing"
	"time"

	"github.com/rnovacek/czspot-go/hours"
)

func TestNewAdjusterZeroFees(t *testing.T) {
	if NewAdjuster(Fees{}) != nil {
		t.Error("zero fees should yield no adjuster")
	}
}

func TestNewAdjusterFixedAndVAT(t *testing.T) {
	adjust := NewAdjuster(Fees{Fixed: 0.5, VATPercent: 21})
	at := time.Date(2025, time.January, 15, 10, 0, 0, 0, hours.Prague())

	got := adjust(at, 2.0)
	want := (2.0 + 0.5) * 1.21
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNewAdjusterTimedRates(t *testing.T) {
	adjust := NewAdjuster(Fees{
		Timed: []TimedRate{
			{Rate: 1.0, Hours: []int{8, 9, 10}},
			{Rate: 0.25, Hours: []int{10}},
		},
	})

	tests := []struct {
		name     string
		hour     int
		expected float64
	}{
		{"outside all windows", 3, 5.0},
		{"single rate applies", 8, 6.0},
		{"overlapping rates stack", 10, 6.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2025, time.January, 15, tt.hour, 0, 0, 0, hours.Prague())
			if got := adjust(at, 5.0); got != tt.expected {
				t.Errorf("hour %d expected %v, got %v", tt.hour, tt.expected, got)
			}
		})
	}
}

func TestTimedRateUsesPragueHour(t *testing.T) {
	adjust := NewAdjuster(Fees{
		Timed: []TimedRate{{Rate: 1.0, Hours: []int{0}}},
	})

	// 23:30 UTC in winter is 00:30 in Prague, the midnight rate applies.
	at := time.Date(2025, time.January, 15, 23, 30, 0, 0, time.UTC)
	if got := adjust(at, 1.0); got != 2.0 {
		t.Errorf("expected Prague-local hour matching, got %v", got)
	}
}

func TestNewAdjusterNegativeFixed(t *testing.T) {
	adjust := NewAdjuster(Fees{Fixed: -0.3})
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, hours.Prague())
	if got := adjust(at, 2.0); got != 1.7 {
		t.Errorf("expected 1.7, got %v", got)
	}
}
