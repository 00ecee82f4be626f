package types

import (
	"context"
	"time"
)

// HourPrice is one raw market quote: OTE publishes prices per hourly
// interval using 1-based indexes, index 1 being 00:00-01:00 Prague time.
type HourPrice struct {
	Hour  int
	Price float64 // EUR per MWh
}

// DayPrice is one daily quote, used by the gas index market.
type DayPrice struct {
	Day   time.Time
	Price float64 // EUR per MWh
}

type SpotRateProvider interface {
	// DayAheadPrices returns the hourly electricity prices published for
	// the given Prague calendar day. An empty slice means the operator has
	// not published the day yet, which is a regular state, not an error.
	DayAheadPrices(ctx context.Context, day time.Time) ([]HourPrice, error)

	// GasIndexPrices returns the daily gas index around the given day.
	GasIndexPrices(ctx context.Context, day time.Time) ([]DayPrice, error)
}

type FxRateProvider interface {
	// Rate returns the multiplier converting a price quoted in EUR into
	// the given target currency, valid for the current Prague day.
	Rate(ctx context.Context, currency string) (float64, error)
}
