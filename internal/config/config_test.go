package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, uint64(60), cfg.SummaryEvery)
	assert.Empty(t, cfg.CatalogPath)
	assert.Empty(t, cfg.JournalPath)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COOKIE_TICK_INTERVAL", "250ms")
	t.Setenv("COOKIE_JOURNAL", "/tmp/cookies.db")
	t.Setenv("COOKIE_SEED", "42")
	t.Setenv("COOKIE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "/tmp/cookies.db", cfg.JournalPath)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("COOKIE_TICK_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOKIE_TICK_INTERVAL")
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("COOKIE_SEED", "not-a-number")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
