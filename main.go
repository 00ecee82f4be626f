package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rnovacek/czspot-go/cnb"
	"github.com/rnovacek/czspot-go/config"
	"github.com/rnovacek/czspot-go/database"
	"github.com/rnovacek/czspot-go/homeassistant"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/logging"
	"github.com/rnovacek/czspot-go/ote"
	"github.com/rnovacek/czspot-go/sensor"
	"github.com/rnovacek/czspot-go/spot"
	"github.com/rnovacek/czspot-go/task"
	"github.com/rnovacek/czspot-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := hours.SetDisplayTimezone(cnfg.Display.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set display timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("czspot is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewFanout(
		consoleHandler,
		logging.NewDBHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	holder := spot.NewHolder()
	server := www.NewServer(db, holder, cnfg.Api)

	var mqttPublisher *homeassistant.Publisher
	if cnfg.Mqtt.Enabled {
		mqttPublisher = homeassistant.New(cnfg.Mqtt)
		if isDevMode() {
			logger.Info("dev mode, skipping MQTT connection")
		} else {
			if err := mqttPublisher.Connect(); err != nil {
				panic(fmt.Sprintf("MQTT connection error: %v", err))
			}
			defer mqttPublisher.Disconnect()
		}
	}

	publish := func(snap *spot.Snapshot, states []sensor.State) {
		server.Publish(snap, states)
		if mqttPublisher != nil {
			mqttPublisher.PublishStates(states)
		}
	}

	tasks := task.NewTasks(db, holder, ote.New(), cnb.New(), cnfg, publish)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	config.Watch(logger.With("module", "config"), tasks.ApplyConfig)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
