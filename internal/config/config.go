package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Observer ObserverConfig `mapstructure:"observer"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ObserverConfig holds the observation location and the reference birth
// chart. Nothing in the engine hardcodes these; every call receives them
// from here.
type ObserverConfig struct {
	Latitude       float64           `mapstructure:"latitude"`
	Longitude      float64           `mapstructure:"longitude"`
	Timezone       string            `mapstructure:"timezone"`
	ReferenceChart models.BirthChart `mapstructure:"reference_chart"`
}

// EngineConfig holds calculation behavior configuration
type EngineConfig struct {
	ZodiacSystem       string        `mapstructure:"zodiac_system"` // tropical or sidereal
	EphemerisPath      string        `mapstructure:"ephemeris_path"`
	HorizonDays        int           `mapstructure:"horizon_days"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	MassWeightedBonus  bool          `mapstructure:"mass_weighted_bonus"`
	NotifyPotencyFloor float64       `mapstructure:"notify_potency_floor"`
	TopWindows         int           `mapstructure:"top_windows"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// StorageConfig holds storage and persistence configuration
type StorageConfig struct {
	MaxReadings int    `mapstructure:"max_readings"`
	DBPath      string `mapstructure:"db_path"`
}

// ServerConfig holds the HTTP surface configuration
type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("ALCHM")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Observer defaults: Forest Hills, NY, with the reference chart used by
	// the original deployment.
	v.SetDefault("observer.latitude", 40.7181)
	v.SetDefault("observer.longitude", -73.8448)
	v.SetDefault("observer.timezone", "America/New_York")
	v.SetDefault("observer.reference_chart.year", 1990)
	v.SetDefault("observer.reference_chart.month", 10)
	v.SetDefault("observer.reference_chart.day", 15)
	v.SetDefault("observer.reference_chart.hour", 7)
	v.SetDefault("observer.reference_chart.minute", 15)
	v.SetDefault("observer.reference_chart.latitude", 40.7181)
	v.SetDefault("observer.reference_chart.longitude", -73.8448)
	v.SetDefault("observer.reference_chart.timezone", "America/New_York")

	// Engine defaults
	v.SetDefault("engine.zodiac_system", "tropical")
	v.SetDefault("engine.ephemeris_path", "")
	v.SetDefault("engine.horizon_days", 7)
	v.SetDefault("engine.poll_interval", "15m")
	v.SetDefault("engine.mass_weighted_bonus", false)
	v.SetDefault("engine.notify_potency_floor", 2.0)
	v.SetDefault("engine.top_windows", 3)

	// Storage defaults
	v.SetDefault("storage.max_readings", 1000)
	v.SetDefault("storage.db_path", "./data/alchm.db")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Observer config
	if c.Observer.Latitude < -90 || c.Observer.Latitude > 90 {
		return fmt.Errorf("observer.latitude must be between -90 and 90")
	}
	if c.Observer.Longitude < -180 || c.Observer.Longitude > 180 {
		return fmt.Errorf("observer.longitude must be between -180 and 180")
	}
	if c.Observer.Timezone != "" {
		if _, err := time.LoadLocation(c.Observer.Timezone); err != nil {
			return fmt.Errorf("observer.timezone is invalid: %w", err)
		}
	}
	if err := c.Observer.ReferenceChart.Validate(); err != nil {
		return fmt.Errorf("observer.reference_chart: %w", err)
	}

	// Validate Engine config
	if !models.ZodiacSystem(c.Engine.ZodiacSystem).Valid() {
		return fmt.Errorf("engine.zodiac_system must be tropical or sidereal")
	}
	if c.Engine.HorizonDays < 1 || c.Engine.HorizonDays > 30 {
		return fmt.Errorf("engine.horizon_days must be between 1 and 30")
	}
	if c.Engine.PollInterval < 1*time.Minute {
		return fmt.Errorf("engine.poll_interval must be at least 1 minute")
	}
	if c.Engine.NotifyPotencyFloor < 0 {
		return fmt.Errorf("engine.notify_potency_floor must not be negative")
	}
	if c.Engine.TopWindows < 1 {
		return fmt.Errorf("engine.top_windows must be at least 1")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Storage config
	if c.Storage.MaxReadings < 1 {
		return fmt.Errorf("storage.max_readings must be at least 1")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	// Validate Server config
	if c.Server.Enabled {
		if c.Server.Addr == "" {
			return fmt.Errorf("server.addr is required when the server is enabled")
		}
		if c.Server.Timeout < time.Second {
			return fmt.Errorf("server.timeout must be at least 1 second")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// ZodiacSystem returns the configured zodiac system as a typed value.
func (c *Config) ZodiacSystem() models.ZodiacSystem {
	return models.ZodiacSystem(c.Engine.ZodiacSystem)
}
