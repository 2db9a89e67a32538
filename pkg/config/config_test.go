package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithEnvDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Analysis.TimingWindowDays)
	assert.Equal(t, 0.05, cfg.Analysis.SignificantPriceChange)
	assert.Equal(t, 0.3, cfg.Analysis.MinConfidenceThreshold)
	assert.Equal(t, 5, cfg.Analysis.MaxConcurrentRequests)
	assert.Equal(t, 1.0, cfg.Analysis.RequestDelaySeconds)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TIMING_WINDOW_DAYS", "45")
	t.Setenv("MIN_CONFIDENCE_THRESHOLD", "0.6")
	t.Setenv("MAX_CONCURRENT_REQUESTS", "2")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Analysis.TimingWindowDays)
	assert.Equal(t, 0.6, cfg.Analysis.MinConfidenceThreshold)
	assert.Equal(t, 2, cfg.Analysis.MaxConcurrentRequests)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
environment: test
analysis:
  timing_window_days: 60
  min_confidence_threshold: 0.4
clickhouse:
  host: ch.internal
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 60, cfg.Analysis.TimingWindowDays)
	assert.Equal(t, 0.4, cfg.Analysis.MinConfidenceThreshold)
	assert.Equal(t, "ch.internal", cfg.ClickHouse.Host)
	// untouched fields keep defaults
	assert.Equal(t, 0.05, cfg.Analysis.SignificantPriceChange)
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE_THRESHOLD", "1.5")
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_confidence_threshold")
}

func TestValidateRejectsZeroWindow(t *testing.T) {
	t.Setenv("TIMING_WINDOW_DAYS", "0")
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
