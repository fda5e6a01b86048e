package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the wrapper's own settings. Module parameters (name, state,
// upgrade) are not configuration; they arrive with every invocation.
type Config struct {
	// Path or name of the atomic tool
	AtomicBin string `mapstructure:"atomic-bin"`

	// Invocation journal, disabled when empty
	HistoryDB    string `mapstructure:"history-db"`
	HistoryLimit int    `mapstructure:"history-limit"`

	// Logging
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// Load reads configuration from environment, config file, and defaults
func Load() (*Config, error) {
	viper.SetDefault("atomic-bin", "atomic")
	viper.SetDefault("history-db", "")
	viper.SetDefault("history-limit", 20)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", "text")

	// Environment variables (ATOMIC_IMAGE_ATOMIC_BIN, etc.)
	viper.SetEnvPrefix("ATOMIC_IMAGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.atomic-image")

	// Config file is optional
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AtomicBin) == "" {
		return fmt.Errorf("atomic-bin cannot be empty")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history-limit must be non-negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error: got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log-format must be text or json: got %q", c.LogFormat)
	}
	return nil
}

// JournalEnabled reports whether invocations are recorded.
func (c *Config) JournalEnabled() bool {
	return c.HistoryDB != ""
}
