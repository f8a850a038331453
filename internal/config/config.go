// Package config loads runtime settings from the environment.
//
// Every field has a default so the binary runs with no environment at all.
// Command-line flags override these values in internal/cli.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the CLI commands.
type Config struct {
	// DataDir holds the IHME CSV exports read by `pdscatter unify`.
	DataDir string `env:"PDSCATTER_DATA_DIR" envDefault:"data"`

	// DBPath is the SQLite file holding the unified table and sessions.
	DBPath string `env:"PDSCATTER_DB" envDefault:"pdscatter.db"`

	// Addr is the listen address of `pdscatter serve`.
	Addr string `env:"PDSCATTER_ADDR" envDefault:"127.0.0.1:8080"`

	// TickInterval is the playback period.
	TickInterval time.Duration `env:"PDSCATTER_TICK_INTERVAL" envDefault:"500ms"`

	// YearMin and YearMax bound the year scrubber.
	YearMin int `env:"PDSCATTER_YEAR_MIN" envDefault:"1990"`
	YearMax int `env:"PDSCATTER_YEAR_MAX" envDefault:"2017"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `env:"PDSCATTER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.YearMin > c.YearMax {
		return fmt.Errorf("year range [%d, %d] is empty", c.YearMin, c.YearMax)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative, got %s", c.ShutdownTimeout)
	}
	return nil
}
