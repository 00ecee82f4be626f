package spot

import (
	"errors"
	"time"
)

// TwoDayWindow pairs today's series with tomorrow's. Tomorrow is usually
// empty until the operator publishes it after 13:00 Prague time, which is
// a regular state. The window is immutable, rebuilds replace it whole.
type TwoDayWindow struct {
	Today    PriceSeries
	Tomorrow PriceSeries
}

func NewTwoDayWindow(today, tomorrow PriceSeries) TwoDayWindow {
	return TwoDayWindow{Today: today, Tomorrow: tomorrow}
}

func (w TwoDayWindow) HasTomorrowData() bool {
	return !w.Tomorrow.IsEmpty()
}

// CurrentPrice returns the price of the hour covering now.
func (w TwoDayWindow) CurrentPrice(now time.Time) (PricePoint, bool) {
	if p, ok := w.Today.At(now); ok {
		return p, true
	}
	return w.Tomorrow.At(now)
}

func (w TwoDayWindow) TodayMin() (PricePoint, error)    { return Min(w.Today) }
func (w TwoDayWindow) TodayMax() (PricePoint, error)    { return Max(w.Today) }
func (w TwoDayWindow) TomorrowMin() (PricePoint, error) { return Min(w.Tomorrow) }
func (w TwoDayWindow) TomorrowMax() (PricePoint, error) { return Max(w.Tomorrow) }

func (w TwoDayWindow) TodayRanks() []RankedHour    { return RankAll(w.Today) }
func (w TwoDayWindow) TomorrowRanks() []RankedHour { return RankAll(w.Tomorrow) }

// CurrentRank returns today's rank of the hour covering now.
func (w TwoDayWindow) CurrentRank(now time.Time) (int, bool) {
	return RankOf(w.Today, now)
}

// IsCheapestNow reports whether the current hour is today's cheapest.
func (w TwoDayWindow) IsCheapestNow(now time.Time) bool {
	rank, ok := w.CurrentRank(now)
	return ok && rank == 1
}

// CheapestBlock finds the best run of `length` hours within today, or
// within today+tomorrow when crossMidnight is set. When the two series
// turn out not to be joinable the query falls back to today alone
// rather than failing.
func (w TwoDayWindow) CheapestBlock(length int, crossMidnight bool) (CheapestBlock, error) {
	series := w.Today
	if crossMidnight {
		joined, err := w.Today.Concat(w.Tomorrow)
		if err == nil {
			series = joined
		} else if !errors.Is(err, ErrNonContiguousSeries) {
			return CheapestBlock{}, err
		}
	}
	return FindCheapestBlock(series, length)
}

// InCheapestBlock reports whether now lies inside the cheapest block of
// the given length.
func (w TwoDayWindow) InCheapestBlock(now time.Time, length int, crossMidnight bool) (bool, error) {
	block, err := w.CheapestBlock(length, crossMidnight)
	if err != nil {
		return false, err
	}
	return block.Contains(now), nil
}
