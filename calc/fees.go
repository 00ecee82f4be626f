package calc

import (
	"time"

	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/spot"
)

// TimedRate is a surcharge that only applies during certain hours of the
// Prague day, e.g. a distribution high-tariff rate.
type TimedRate struct {
	Rate  float64 `mapstructure:"rate"`
	Hours []int   `mapstructure:"hours"`
}

func (r TimedRate) appliesAt(t time.Time) bool {
	hour := t.In(hours.Prague()).Hour()
	for _, h := range r.Hours {
		if h == hour {
			return true
		}
	}
	return false
}

// Fees describes one price flow's adjustment: a fixed per-unit surcharge,
// time-of-day rates and VAT applied last. Rates use the same currency and
// unit as the converted spot price. A negative Fixed models a feed-in
// deduction on the sell flow.
type Fees struct {
	Fixed float64     `mapstructure:"fixed"`
	Timed []TimedRate `mapstructure:"timed"`
	// VAT percentage, 21 for the Czech standard rate. Zero means no VAT
	// step, useful for sell flows quoted without tax.
	VATPercent float64 `mapstructure:"vat_percent"`
}

func (f Fees) IsZero() bool {
	return f.Fixed == 0 && len(f.Timed) == 0 && f.VATPercent == 0
}

// NewAdjuster builds the pure price adjustment function used by the
// normalizer. The returned function never mutates shared state.
func NewAdjuster(f Fees) spot.Adjuster {
	if f.IsZero() {
		return nil
	}
	return func(t time.Time, price float64) float64 {
		adjusted := price + f.Fixed
		for _, r := range f.Timed {
			if r.appliesAt(t) {
				adjusted += r.Rate
			}
		}
		if f.VATPercent != 0 {
			adjusted *= 1 + f.VATPercent/100
		}
		return adjusted
	}
}
