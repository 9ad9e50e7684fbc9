package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "default", cfg.DefaultDatasetID)
	assert.Empty(t, cfg.DatasetIDs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Minute, cfg.LockTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "0")
	t.Setenv("DATASET_IDS", "hotel-a, hotel-b,,")
	t.Setenv("RETRY_DELAY", "250ms")
	t.Setenv("AS_OF_DATE", "2024-06-30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.Equal(t, []string{"hotel-a", "hotel-b"}, cfg.DatasetIDs)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)

	now, err := cfg.Now(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), now)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nmax_concurrency: 8\n"), 0o644))
	t.Setenv("HOTEL_ANALYTICS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.MaxConcurrency)
}

func TestNowFallbackAndInvalidDate(t *testing.T) {
	fallback := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cfg := &Config{}
	now, err := cfg.Now(fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, now)

	cfg.AsOfDate = "30/06/2024"
	_, err = cfg.Now(fallback)
	assert.Error(t, err)
}
