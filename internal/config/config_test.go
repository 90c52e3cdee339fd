package config

import (
	"os"
	"testing"
	"time"

	"github.com/alchm-dev/alchm-core/internal/models"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	content := `
observer:
  latitude: 51.5074
  longitude: -0.1278
  timezone: "Europe/London"

engine:
  zodiac_system: sidereal
  horizon_days: 14
  poll_interval: 10m

telegram:
  bot_token: "test_token"
  chat_id: "test_chat_id"
  enabled: true

storage:
  max_readings: 500
  db_path: "./data/test.db"

logging:
  level: "debug"
  format: "json"
`
	cfg, err := Load(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Observer.Latitude != 51.5074 {
		t.Errorf("Unexpected latitude: %v", cfg.Observer.Latitude)
	}
	if cfg.Engine.PollInterval != 10*time.Minute {
		t.Errorf("Unexpected poll interval: %v", cfg.Engine.PollInterval)
	}
	if cfg.Engine.HorizonDays != 14 {
		t.Errorf("Unexpected horizon: %d", cfg.Engine.HorizonDays)
	}
	if cfg.ZodiacSystem() != models.Sidereal {
		t.Errorf("Unexpected zodiac system: %v", cfg.ZodiacSystem())
	}
	if cfg.Storage.MaxReadings != 500 {
		t.Errorf("Unexpected max readings: %d", cfg.Storage.MaxReadings)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "logging:\n  level: info\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Reference chart defaults must survive with no file entries.
	if cfg.Observer.ReferenceChart.Year != 1990 || cfg.Observer.ReferenceChart.Month != 10 {
		t.Errorf("Unexpected reference chart: %+v", cfg.Observer.ReferenceChart)
	}
	if cfg.Observer.Latitude != 40.7181 {
		t.Errorf("Unexpected default latitude: %v", cfg.Observer.Latitude)
	}
	if cfg.Engine.ZodiacSystem != "tropical" {
		t.Errorf("Unexpected default zodiac system: %q", cfg.Engine.ZodiacSystem)
	}
	if cfg.Engine.HorizonDays != 7 {
		t.Errorf("Unexpected default horizon: %d", cfg.Engine.HorizonDays)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeTempConfig(t, "logging:\n  level: info\n"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad zodiac system", func(c *Config) { c.Engine.ZodiacSystem = "draconic" }},
		{"horizon too long", func(c *Config) { c.Engine.HorizonDays = 90 }},
		{"poll interval too short", func(c *Config) { c.Engine.PollInterval = time.Second }},
		{"latitude out of range", func(c *Config) { c.Observer.Latitude = 95 }},
		{"bad timezone", func(c *Config) { c.Observer.Timezone = "Mars/Olympus" }},
		{"telegram enabled without token", func(c *Config) { c.Telegram.Enabled = true }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad chart year", func(c *Config) { c.Observer.ReferenceChart.Year = 1700 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
