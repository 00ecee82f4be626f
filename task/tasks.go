package task

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/sensor"
	"github.com/rnovacek/czspot-go/spot"
	"github.com/rnovacek/czspot-go/types"
)

// Publish hands a freshly built snapshot and its sensor states to the
// outbound surfaces (MQTT, websocket clients).
type Publish func(*spot.Snapshot, []sensor.State)

type Tasks struct {
	cron *cron.Cron
	cnfg atomic.Pointer[config.AppConfig]

	FetchTask       func()
	EnsureTask      func()
	FxTask          func()
	RebuildTask     func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	holder *spot.Holder,
	rates types.SpotRateProvider,
	fx types.FxRateProvider,
	cnfg *config.AppConfig,
	publish Publish,
) *Tasks {
	logger := slog.Default().With("module", "tasks")

	t := &Tasks{cron: cron.New(cron.WithLocation(hours.Prague()))}
	t.cnfg.Store(cnfg)

	t.RebuildTask = NewRebuildTask(logger.With(slog.String("task", "rebuild")), db, holder, t.config, publish)
	t.FxTask = NewFxTask(logger.With(slog.String("task", "fx_rate")), db, fx, t.config, t.RebuildTask)
	fetch, ensure := NewSpotFetchTasks(logger.With(slog.String("task", "spot_fetch")), db, rates, t.config, t.RebuildTask)
	t.FetchTask = fetch
	t.EnsureTask = ensure
	t.MaintenanceTask = NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, t.config)

	return t
}

func (t *Tasks) config() *config.AppConfig {
	return t.cnfg.Load()
}

// ApplyConfig swaps the live config and rebuilds so fee and block
// changes show up without waiting for the next hour.
func (t *Tasks) ApplyConfig(next *config.AppConfig) {
	t.cnfg.Store(next)
	t.RebuildTask()
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.config().SpotRate.GetRunAt(), t.FetchTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("@every 30m", t.EnsureTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("5 0 * * *", t.FxTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("0 * * * *", t.RebuildTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("30 2 * * *", t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
