package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.hubapi.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, MaxBatchSize, cfg.Import.BatchSize)
	assert.Equal(t, 3, cfg.Import.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Import.RetryBackoff)
	assert.Equal(t, 500*time.Millisecond, cfg.Import.BatchPause)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.Equal(t, "tax_import.log", cfg.Log.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAXIMPORT_API_BASE_URL", "http://localhost:9999")
	t.Setenv("TAXIMPORT_IMPORT_BATCH_SIZE", "25")
	t.Setenv("TAXIMPORT_IMPORT_MAX_ATTEMPTS", "5")
	t.Setenv("TAXIMPORT_IMPORT_BATCH_PAUSE", "0")
	t.Setenv("TAXIMPORT_LOG_DIR", "/tmp/taxlogs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.Import.BatchSize)
	assert.Equal(t, 5, cfg.Import.MaxAttempts)
	assert.Equal(t, time.Duration(0), cfg.Import.BatchPause)
	assert.Equal(t, "/tmp/taxlogs", cfg.Log.Dir)
}

func TestLoad_BatchSizeNeverExceedsAPILimit(t *testing.T) {
	t.Setenv("TAXIMPORT_IMPORT_BATCH_SIZE", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MaxBatchSize, cfg.Import.BatchSize)
}
