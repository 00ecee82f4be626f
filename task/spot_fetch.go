package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/ote"
	"github.com/rnovacek/czspot-go/types"
)

// OTE publishes the day-ahead auction results shortly after 13:00 Prague
// time. The ensure pass starts nagging for tomorrow's data after this.
const publishHour = 13
const publishMinute = 15

// NewSpotFetchTasks returns the scheduled fetch and the ensure pass. The
// fetch runs unconditionally at its cron slot, the ensure pass refetches
// only while cached data is missing. A stale cache at startup triggers
// one immediate fetch.
func NewSpotFetchTasks(
	logger *slog.Logger,
	db *database.Database,
	rates types.SpotRateProvider,
	cnfg func() *config.AppConfig,
	rebuild func(),
) (fetch func(), ensure func()) {
	fetch = func() { runSpotFetch(logger, db, rates, cnfg(), rebuild) }
	ensure = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if needSpotFetch(ctx, logger, db, time.Now().In(hours.Prague())) {
			fetch()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if needSpotFetch(ctx, logger, db, time.Now().In(hours.Prague())) {
		logger.Info("price cache is stale, fetching immediately")
		fetch()
	} else {
		logger.Debug("price cache is fresh, waiting for the schedule")
	}

	return fetch, ensure
}

func runSpotFetch(logger *slog.Logger, db *database.Database, rates types.SpotRateProvider, cnfg *config.AppConfig, rebuild func()) {
	logger.Debug("running spot fetch task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().In(hours.Prague())
	updated := false

	for _, day := range []time.Time{now, now.AddDate(0, 0, 1)} {
		dayStr := hours.DayString(day)
		quotes, err := rates.DayAheadPrices(ctx, day)
		if err != nil {
			if errors.Is(err, ote.ErrSourceUnavailable) {
				logger.Warn("price source unavailable", slog.String("day", dayStr), slog.Any("error", err))
			} else {
				logger.Error("fetching day-ahead prices failed", slog.String("day", dayStr), slog.Any("error", err))
			}
			continue
		}
		if len(quotes) == 0 {
			logger.Info("day not published yet", slog.String("day", dayStr))
			continue
		}
		if err := db.SaveSpotPrices(ctx, dayStr, quotes); err != nil {
			logger.Error("caching spot prices failed", slog.String("day", dayStr), slog.Any("error", err))
			continue
		}
		logger.Info("spot prices updated", slog.String("day", dayStr), slog.Int("hours", len(quotes)))
		updated = true
	}

	if cnfg.Gas.Enabled {
		if fetchGasIndex(ctx, logger, db, rates, now) {
			updated = true
		}
	}

	if updated {
		rebuild()
	}
	logger.Debug("spot fetch task done")
}

// fetchGasIndex pulls the daily index for yesterday through tomorrow.
// Yesterday feeds the today-falls-back-to-yesterday rule, tomorrow is
// usually empty until published.
func fetchGasIndex(ctx context.Context, logger *slog.Logger, db *database.Database, rates types.SpotRateProvider, now time.Time) bool {
	updated := false
	for offset := -1; offset <= 1; offset++ {
		day := now.AddDate(0, 0, offset)
		quotes, err := rates.GasIndexPrices(ctx, day)
		if err != nil {
			logger.Error("fetching gas index failed", slog.String("day", hours.DayString(day)), slog.Any("error", err))
			continue
		}
		for _, dp := range quotes {
			if err := db.SaveGasPrice(ctx, hours.DayString(dp.Day), dp.Price); err != nil {
				logger.Error("caching gas price failed", slog.String("day", hours.DayString(dp.Day)), slog.Any("error", err))
				continue
			}
			updated = true
		}
	}
	return updated
}

// needSpotFetch reports whether the cache is missing data we expect to
// have: today's prices at any time, tomorrow's once past publish time.
func needSpotFetch(ctx context.Context, logger *slog.Logger, db *database.Database, now time.Time) bool {
	today, err := db.GetSpotPricesForDay(ctx, hours.DayString(now))
	if err != nil {
		logger.Error("reading price cache failed", slog.Any("error", err))
		return true
	}
	if len(today) == 0 {
		return true
	}

	published := hours.Midnight(now).Add(publishHour*time.Hour + publishMinute*time.Minute)
	if now.Before(published) {
		return false
	}
	tomorrow, err := db.GetSpotPricesForDay(ctx, hours.DayString(now.AddDate(0, 0, 1)))
	if err != nil {
		logger.Error("reading price cache failed", slog.Any("error", err))
		return true
	}
	return len(tomorrow) == 0
}
