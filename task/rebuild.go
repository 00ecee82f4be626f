package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/rnovacek/czspot-go/calc"
	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/sensor"
	"github.com/rnovacek/czspot-go/spot"
)

// NewRebuildTask builds a fresh snapshot from the cached prices and
// swaps it into the holder. Any failure leaves the previous snapshot in
// place, readers never observe a half-built state.
func NewRebuildTask(
	logger *slog.Logger,
	db *database.Database,
	holder *spot.Holder,
	cnfg func() *config.AppConfig,
	publish Publish,
) func() {
	return func() {
		logger.Debug("running rebuild task...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c := cnfg()
		now := time.Now().In(hours.Prague())

		in, ok := loadBuildInput(ctx, logger, db, c, now)
		if !ok {
			return
		}

		snap := spot.Build(in, logger)
		holder.Swap(snap)

		states := sensor.Compute(snap, now, sensor.Options{
			BlockLengths:  c.SpotRate.CheapestBlocks,
			CrossMidnight: c.SpotRate.CrossMidnight,
			GasEnabled:    c.Gas.Enabled,
		})
		if publish != nil {
			publish(snap, states)
		}

		logger.Info("snapshot rebuilt",
			slog.Int("todayHours", snap.Electricity.Spot.Today.Len()),
			slog.Int("tomorrowHours", snap.Electricity.Spot.Tomorrow.Len()),
			slog.Int("sensors", len(states)))
	}
}

func loadBuildInput(ctx context.Context, logger *slog.Logger, db *database.Database, c *config.AppConfig, now time.Time) (spot.BuildInput, bool) {
	currency := c.SpotRate.GetCurrency()

	today, err := db.GetSpotPricesForDay(ctx, hours.DayString(now))
	if err != nil {
		logger.Error("rebuild error, reading today's prices", slog.Any("error", err))
		return spot.BuildInput{}, false
	}
	tomorrow, err := db.GetSpotPricesForDay(ctx, hours.DayString(now.AddDate(0, 0, 1)))
	if err != nil {
		logger.Error("rebuild error, reading tomorrow's prices", slog.Any("error", err))
		return spot.BuildInput{}, false
	}

	in := spot.BuildInput{
		Now:         now,
		Currency:    currency,
		Unit:        c.SpotRate.GetUnit(),
		TodayRaw:    today,
		TomorrowRaw: tomorrow,
		FxRate:      1,
		UnitFactor:  c.SpotRate.UnitFactor(),
		BuyAdjust:   calc.NewAdjuster(c.Electricity.Buy),
		SellAdjust:  calc.NewAdjuster(c.Electricity.Sell),
	}

	if currency != "EUR" {
		rate, ok, err := db.GetLatestFxRate(ctx, currency)
		if err != nil {
			logger.Error("rebuild error, reading exchange rate", slog.Any("error", err))
			return spot.BuildInput{}, false
		}
		if !ok {
			logger.Warn("no exchange rate cached yet, keeping previous snapshot", slog.String("currency", currency))
			return spot.BuildInput{}, false
		}
		in.FxRate = rate
	}

	if c.Gas.Enabled {
		yesterday := hours.DayString(now.AddDate(0, 0, -1))
		gas, err := db.GetGasPricesFrom(ctx, yesterday)
		if err != nil {
			logger.Error("rebuild error, reading gas prices", slog.Any("error", err))
			return spot.BuildInput{}, false
		}
		in.GasRaw = gas
		in.GasBuy = calc.NewAdjuster(c.Gas.Buy)
	}

	return in, true
}
