package spot

import (
	"fmt"
	"time"

	"github.com/rnovacek/czspot-go/hours"
)

// Adjuster transforms a converted price, typically adding distribution
// fees and VAT. It must be pure, the same inputs always give the same
// output.
type Adjuster func(t time.Time, price float64) float64

// PricePoint is one hour of a day-ahead price series. Immutable after
// construction, Price is already converted to the target currency and
// unit and passed through the flow's adjuster.
type PricePoint struct {
	At       time.Time
	RawPrice float64
	Price    float64
}

// NewPricePoint normalizes one raw OTE quote. The hour index is 1-based,
// index 1 covering 00:00-01:00 Prague time of the day containing `day`.
// The valid index range follows the day's actual interval count, so DST
// transition days accept 23 or 25 indexes.
func NewPricePoint(day time.Time, hourIndex int, rawPrice, fxRate, unitFactor float64, adjust Adjuster) (PricePoint, error) {
	n := hours.HoursInDay(day)
	if hourIndex < 1 || hourIndex > n {
		return PricePoint{}, fmt.Errorf("%w: index %d, day %s has %d hours",
			ErrInvalidHourIndex, hourIndex, hours.DayString(day), n)
	}

	at := hours.Midnight(day).Add(time.Duration(hourIndex-1) * time.Hour)
	price := rawPrice * fxRate * unitFactor
	if adjust != nil {
		price = adjust(at, price)
	}

	return PricePoint{At: at, RawPrice: rawPrice, Price: price}, nil
}
