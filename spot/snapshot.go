package spot

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/types"
	"github.com/rnovacek/czspot-go/types/maybe"
)

// GasDay holds the daily gas index around now. Today falls back to
// yesterday's index when the operator has not published today yet.
type GasDay struct {
	Yesterday maybe.Maybe[float64]
	Today     maybe.Maybe[float64]
	Tomorrow  maybe.Maybe[float64]
}

func (g GasDay) Current() maybe.Maybe[float64] {
	if g.Today.IsValid() {
		return g.Today
	}
	return g.Yesterday
}

func (g GasDay) HasTomorrowData() bool {
	return g.Tomorrow.IsValid()
}

// TradeWindows carries the electricity window per price flow. Buy and
// Sell are nil unless the user configured fee adjusters for them.
type TradeWindows struct {
	Spot TwoDayWindow
	Buy  *TwoDayWindow
	Sell *TwoDayWindow
}

// GasFlows mirrors TradeWindows for the daily gas index.
type GasFlows struct {
	Spot GasDay
	Buy  *GasDay
}

// Snapshot is the immutable result of one rebuild: every query the rest
// of the process answers reads from a snapshot, never from live state.
type Snapshot struct {
	BuiltAt     time.Time
	Currency    string
	Unit        string
	Electricity TradeWindows
	Gas         GasFlows
}

// Holder owns the current snapshot. Rebuilds swap the pointer atomically,
// readers always see either the old or the new snapshot in full.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the latest snapshot, nil before the first build.
func (h *Holder) Current() *Snapshot {
	return h.cur.Load()
}

func (h *Holder) Swap(s *Snapshot) {
	h.cur.Store(s)
}

// BuildInput is everything one rebuild needs: raw quotes, the currency
// multiplier and unit factor, and the optional fee adjusters per flow.
type BuildInput struct {
	Now         time.Time
	Currency    string
	Unit        string
	TodayRaw    []types.HourPrice
	TomorrowRaw []types.HourPrice
	GasRaw      []types.DayPrice
	FxRate      float64
	UnitFactor  float64
	BuyAdjust   Adjuster
	SellAdjust  Adjuster
	GasBuy      Adjuster
}

// Build normalizes raw quotes into a fresh snapshot. Quotes with an
// invalid hour index are dropped and logged, the rest of the day stays
// usable as a partial series.
func Build(in BuildInput, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	tomorrow := hours.NextMidnight(in.Now)

	spotWindow := NewTwoDayWindow(
		normalizeDay(in.Now, in.TodayRaw, in, nil, logger),
		normalizeDay(tomorrow, in.TomorrowRaw, in, nil, logger))

	windows := TradeWindows{Spot: spotWindow}
	if in.BuyAdjust != nil {
		w := NewTwoDayWindow(
			normalizeDay(in.Now, in.TodayRaw, in, in.BuyAdjust, logger),
			normalizeDay(tomorrow, in.TomorrowRaw, in, in.BuyAdjust, logger))
		windows.Buy = &w
	}
	if in.SellAdjust != nil {
		w := NewTwoDayWindow(
			normalizeDay(in.Now, in.TodayRaw, in, in.SellAdjust, logger),
			normalizeDay(tomorrow, in.TomorrowRaw, in, in.SellAdjust, logger))
		windows.Sell = &w
	}

	gas := GasFlows{Spot: buildGasDay(in, nil)}
	if in.GasBuy != nil {
		g := buildGasDay(in, in.GasBuy)
		gas.Buy = &g
	}

	return &Snapshot{
		BuiltAt:     in.Now,
		Currency:    in.Currency,
		Unit:        in.Unit,
		Electricity: windows,
		Gas:         gas,
	}
}

func normalizeDay(day time.Time, raw []types.HourPrice, in BuildInput, adjust Adjuster, logger *slog.Logger) PriceSeries {
	points := make([]PricePoint, 0, len(raw))
	for _, hp := range raw {
		p, err := NewPricePoint(day, hp.Hour, hp.Price, in.FxRate, in.UnitFactor, adjust)
		if err != nil {
			if errors.Is(err, ErrInvalidHourIndex) {
				logger.Warn("dropping quote with bad hour index",
					slog.String("day", hours.DayString(day)),
					slog.Int("hour", hp.Hour))
				continue
			}
			logger.Error("quote normalization failed", slog.Any("error", err))
			continue
		}
		points = append(points, p)
	}
	return NewSeries(points)
}

func buildGasDay(in BuildInput, adjust Adjuster) GasDay {
	var gd GasDay
	yesterday := in.Now.AddDate(0, 0, -1)
	tomorrow := in.Now.AddDate(0, 0, 1)

	for _, dp := range in.GasRaw {
		price := dp.Price * in.FxRate * in.UnitFactor
		if adjust != nil {
			price = adjust(hours.Midnight(dp.Day), price)
		}
		switch {
		case hours.SameDay(dp.Day, yesterday):
			gd.Yesterday = maybe.Some(price)
		case hours.SameDay(dp.Day, in.Now):
			gd.Today = maybe.Some(price)
		case hours.SameDay(dp.Day, tomorrow):
			gd.Tomorrow = maybe.Some(price)
		}
	}
	return gd
}
