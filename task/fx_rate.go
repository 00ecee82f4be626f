package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/types"
)

// NewFxTask refreshes the EUR conversion rate for the configured target
// currency. The rate is cached in the database so rebuilds keep working
// through bank outages with the last known rate.
func NewFxTask(
	logger *slog.Logger,
	db *database.Database,
	fx types.FxRateProvider,
	cnfg func() *config.AppConfig,
	rebuild func(),
) func() {
	run := func() { runFxTask(logger, db, fx, cnfg(), rebuild) }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	currency := cnfg().SpotRate.GetCurrency()
	if _, ok, err := db.GetLatestFxRate(ctx, currency); err != nil || !ok {
		logger.Info("no cached exchange rate, fetching immediately", slog.String("currency", currency))
		run()
	}

	return run
}

func runFxTask(logger *slog.Logger, db *database.Database, fx types.FxRateProvider, cnfg *config.AppConfig, rebuild func()) {
	logger.Debug("running fx rate task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	currency := cnfg.SpotRate.GetCurrency()
	rate, err := fx.Rate(ctx, currency)
	if err != nil {
		logger.Error("fetching exchange rate failed", slog.String("currency", currency), slog.Any("error", err))
		return
	}

	day := hours.DayString(time.Now().In(hours.Prague()))
	if err := db.SaveFxRate(ctx, day, currency, rate); err != nil {
		logger.Error("caching exchange rate failed", slog.Any("error", err))
		return
	}

	logger.Info("exchange rate updated", slog.String("currency", currency), slog.Float64("rate", rate))
	rebuild()
}
