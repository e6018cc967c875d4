package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.Engine.Strategy = "fuzzy"
	cfg.Engine.Budget = 0
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown strategy")
	assert.Contains(t, err.Error(), "budget must be > 0")
	assert.Contains(t, err.Error(), "redis: addr")
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "serve"

[engine]
strategy = "scored"
budget = 250.0

[pipeline]
scan_interval = "30s"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serve", cfg.Mode)
	assert.Equal(t, "scored", cfg.Engine.Strategy)
	assert.Equal(t, 250.0, cfg.Engine.Budget)
	assert.Equal(t, "30s", cfg.Pipeline.ScanInterval.Duration.String())
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Polymarket.GammaHost)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARBSCAN_ENGINE_STRATEGY", "similarity")
	t.Setenv("ARBSCAN_ENGINE_MIN_ROI", "1.5")
	t.Setenv("ARBSCAN_KALSHI_SERIES", "KXNFLGAME, KXNBA")
	t.Setenv("ARBSCAN_POSTGRES_RUN_MIGRATIONS", "false")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "similarity", cfg.Engine.Strategy)
	assert.Equal(t, 1.5, cfg.Engine.MinROI)
	assert.Equal(t, []string{"KXNFLGAME", "KXNBA"}, cfg.Kalshi.Series)
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Password = "hunter2"
	cfg.Redis.Password = "hunter2"
	cfg.S3.SecretKey = "hunter2"
	cfg.Notify.TelegramToken = "123:abc"

	red := RedactedConfig(&cfg)

	assert.Equal(t, "***", red.Postgres.Password)
	assert.Equal(t, "***", red.Redis.Password)
	assert.Equal(t, "***", red.S3.SecretKey)
	assert.Equal(t, "***", red.Notify.TelegramToken)
	// Original untouched.
	assert.Equal(t, "hunter2", cfg.Postgres.Password)
	// Non-secret fields pass through.
	assert.Equal(t, cfg.Redis.Addr, red.Redis.Addr)
}
