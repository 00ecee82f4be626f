package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
)

func NewMaintenanceTask(logger *slog.Logger, db *database.Database, cnfg func() *config.AppConfig) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		c := cnfg()

		if err := db.Backup(ctx); err != nil {
			logger.Error("database backup error", slog.Any("error", err))
		}

		if err := db.PurgeBackups(ctx, c.Database.GetBackupRetentionDays()); err != nil {
			logger.Error("backup maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeLog(ctx, c.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		retention := c.Database.GetDataRetentionDays()
		if err := db.PurgeSpotPrices(ctx, retention); err != nil {
			logger.Error("spot_price maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeGasPrices(ctx, retention); err != nil {
			logger.Error("gas_price maintenance error", slog.Any("error", err))
		}

		if err := db.PurgeFxRates(ctx, retention); err != nil {
			logger.Error("fx_rate maintenance error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
