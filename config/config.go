package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rnovacek/czspot-go/calc"
	"github.com/rnovacek/czspot-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigDatabase struct {
	Path string
	// How many days of cached prices and log entries to keep before purging
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they get deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 7
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 30
	}
	return *d.BackupRetentionDays
}

type AppConfigSpotRate struct {
	// Target currency for published prices: "CZK", "EUR", ...
	Currency string
	// Target energy unit: "kWh" or "MWh"
	Unit string
	// Block lengths (in hours) evaluated for the is-cheapest binary sensors
	CheapestBlocks []int `mapstructure:"cheapest_blocks"`
	// Allow cheapest blocks to span the midnight boundary into tomorrow
	CrossMidnight bool `mapstructure:"cross_midnight"`
	// When to fetch new prices, cron spec in Prague time. OTE publishes
	// the next day shortly after 13:00.
	RunAt *string `mapstructure:"run_at"`
}

func (s AppConfigSpotRate) GetCurrency() string {
	if s.Currency == "" {
		return "CZK"
	}
	return s.Currency
}

func (s AppConfigSpotRate) GetUnit() string {
	if strings.EqualFold(s.Unit, "MWh") {
		return "MWh"
	}
	return "kWh"
}

func (s AppConfigSpotRate) UnitFactor() float64 {
	if s.GetUnit() == "MWh" {
		return 1
	}
	return 0.001
}

func (s AppConfigSpotRate) GetRunAt() string {
	if s.RunAt == nil {
		return "10 13 * * *"
	}
	return *s.RunAt
}

type AppConfigElectricity struct {
	Buy  calc.Fees `mapstructure:"buy"`
	Sell calc.Fees `mapstructure:"sell"`
}

type AppConfigGas struct {
	Enabled bool      `mapstructure:"enabled"`
	Buy     calc.Fees `mapstructure:"buy"`
}

type AppConfigMqtt struct {
	Enabled  bool
	Host     string
	Port     int16
	Username string
	Password string
	ClientId *string `mapstructure:"client_id"`
	// Home Assistant discovery prefix, default "homeassistant"
	DiscoveryPrefix *string `mapstructure:"discovery_prefix"`
	// Prefix for state topics, default "czspot"
	BaseTopic *string `mapstructure:"base_topic"`
}

func (m AppConfigMqtt) GetClientId() string {
	if m.ClientId == nil {
		return "czspot"
	}
	return *m.ClientId
}

func (m AppConfigMqtt) GetDiscoveryPrefix() string {
	if m.DiscoveryPrefix == nil {
		return "homeassistant"
	}
	return *m.DiscoveryPrefix
}

func (m AppConfigMqtt) GetBaseTopic() string {
	if m.BaseTopic == nil {
		return "czspot"
	}
	return *m.BaseTopic
}

type AppConfigDisplay struct {
	// Timezone for rendering times in sensor attributes and the web UI,
	// default: Europe/Prague
	Timezone *string `mapstructure:"timezone"`
}

func (d AppConfigDisplay) GetTimezone() string {
	if d.Timezone == nil {
		return "Europe/Prague"
	}
	return *d.Timezone
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.AttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.AttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.AttrFormatText
	}
	return logging.AttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	SpotRate    AppConfigSpotRate    `mapstructure:"spot_rate"`
	Electricity AppConfigElectricity `mapstructure:"electricity"`
	Gas         AppConfigGas         `mapstructure:"gas"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Display     AppConfigDisplay     `mapstructure:"display"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}

// Watch reloads the config file on change and hands the new config to
// onChange. Fee and block settings take effect on the next rebuild,
// connection settings still need a restart.
func Watch(logger *slog.Logger, onChange func(*AppConfig)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		var next AppConfig
		if err := viper.Unmarshal(&next); err != nil {
			logger.Error("ignoring config change, unmarshal failed", slog.Any("error", err))
			return
		}
		logger.Info("config reloaded", slog.String("file", e.Name))
		onChange(&next)
	})
	viper.WatchConfig()
}
