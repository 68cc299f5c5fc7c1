// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every process-level setting. Game constants live in the
// catalog instead.
type Config struct {
	TickInterval time.Duration `env:"COOKIE_TICK_INTERVAL" envDefault:"1s"`
	SummaryEvery uint64        `env:"COOKIE_SUMMARY_EVERY" envDefault:"60"` // ticks between summary logs; 0 disables
	CatalogPath  string        `env:"COOKIE_CATALOG"`                       // empty selects the built-in catalog
	JournalPath  string        `env:"COOKIE_JOURNAL"`                       // empty disables the journal
	Seed         uint64        `env:"COOKIE_SEED"`                          // 0 draws from crypto/rand
	LogLevel     slog.Level    `env:"COOKIE_LOG_LEVEL" envDefault:"INFO"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("COOKIE_TICK_INTERVAL must be positive")
	}
	return nil
}
