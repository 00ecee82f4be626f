package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYaml = `
api:
  address: ""
  port: 8093

database:
  path: "./czspot.db"
  data_retention_days: 14

spot_rate:
  currency: "CZK"
  unit: "kWh"
  cheapest_blocks: [3, 8]
  cross_midnight: true

electricity:
  buy:
    fixed: 1.5
    vat_percent: 21
    timed:
      - rate: 0.5
        hours: [8, 9, 10, 17, 18]
  sell:
    fixed: -0.45

gas:
  enabled: true
  buy:
    fixed: 0.8
    vat_percent: 21

mqtt:
  enabled: true
  host: "mqtt.local"
  port: 1883

display:
  timezone: "Europe/Prague"

logging:
  console_level: "DEBUG"
  db_level: "WARN"
  db_attrs_format: "text"
`

func loadTestConfig(t *testing.T) *AppConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYaml), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return c
}

func TestLoadConfig(t *testing.T) {
	c := loadTestConfig(t)

	t.Run("SpotRate", func(t *testing.T) {
		if c.SpotRate.GetCurrency() != "CZK" {
			t.Errorf("expected currency CZK, got %s", c.SpotRate.GetCurrency())
		}
		if c.SpotRate.GetUnit() != "kWh" {
			t.Errorf("expected unit kWh, got %s", c.SpotRate.GetUnit())
		}
		if c.SpotRate.UnitFactor() != 0.001 {
			t.Errorf("expected unit factor 0.001, got %f", c.SpotRate.UnitFactor())
		}
		if len(c.SpotRate.CheapestBlocks) != 2 || c.SpotRate.CheapestBlocks[0] != 3 {
			t.Errorf("unexpected cheapest blocks: %v", c.SpotRate.CheapestBlocks)
		}
		if !c.SpotRate.CrossMidnight {
			t.Error("expected cross_midnight to be true")
		}
		if c.SpotRate.GetRunAt() != "10 13 * * *" {
			t.Errorf("expected default run_at, got %s", c.SpotRate.GetRunAt())
		}
	})

	t.Run("Fees", func(t *testing.T) {
		if c.Electricity.Buy.Fixed != 1.5 {
			t.Errorf("expected buy fixed fee 1.5, got %f", c.Electricity.Buy.Fixed)
		}
		if c.Electricity.Buy.VATPercent != 21 {
			t.Errorf("expected buy VAT 21, got %f", c.Electricity.Buy.VATPercent)
		}
		if len(c.Electricity.Buy.Timed) != 1 || c.Electricity.Buy.Timed[0].Rate != 0.5 {
			t.Errorf("unexpected timed rates: %+v", c.Electricity.Buy.Timed)
		}
		if c.Electricity.Sell.Fixed != -0.45 {
			t.Errorf("expected sell fixed fee -0.45, got %f", c.Electricity.Sell.Fixed)
		}
		if c.Gas.Buy.IsZero() {
			t.Error("expected gas buy fees to be configured")
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		if c.Database.GetDataRetentionDays() != 14 {
			t.Errorf("expected retention 14, got %d", c.Database.GetDataRetentionDays())
		}
		if c.Database.GetBackupRetentionDays() != 30 {
			t.Errorf("expected default backup retention 30, got %d", c.Database.GetBackupRetentionDays())
		}
		if c.Mqtt.GetClientId() != "czspot" {
			t.Errorf("expected default client id, got %s", c.Mqtt.GetClientId())
		}
		if c.Mqtt.GetDiscoveryPrefix() != "homeassistant" {
			t.Errorf("expected default discovery prefix, got %s", c.Mqtt.GetDiscoveryPrefix())
		}
		if c.Display.GetTimezone() != "Europe/Prague" {
			t.Errorf("expected Prague display timezone, got %s", c.Display.GetTimezone())
		}
	})

	t.Run("Logging", func(t *testing.T) {
		if c.Logging.GetConsoleLevel().String() != "DEBUG" {
			t.Errorf("expected console level DEBUG, got %s", c.Logging.GetConsoleLevel())
		}
		if c.Logging.GetDbLevel().String() != "WARN" {
			t.Errorf("expected db level WARN, got %s", c.Logging.GetDbLevel())
		}
		if c.Logging.GetDbAttrsFormat() != "TEXT" {
			t.Errorf("expected TEXT attr format, got %s", c.Logging.GetDbAttrsFormat())
		}
		if c.Logging.GetDbMaxEntries() != 10000 {
			t.Errorf("expected default max entries, got %d", c.Logging.GetDbMaxEntries())
		}
	})
}
