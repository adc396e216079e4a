package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencease/client/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "file:sentencease.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 20, cfg.CacheBatchSize)
	assert.Equal(t, 300, cfg.RevealGraceMs)
	assert.Equal(t, 15, cfg.ProbeIntervalSeconds)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/v1")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("HISTORY_SIZE", "5")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := config.Load()
	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadIgnoresUnparsableIntegers(t *testing.T) {
	t.Setenv("HISTORY_SIZE", "lots")

	cfg := config.Load()
	assert.Equal(t, 10, cfg.HistorySize)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := config.Load()
	cfg.APIBaseURL = "not a url"
	cfg.LogLevel = "LOUD"
	cfg.HistorySize = 0
	cfg.JobWorkerCount = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "HISTORY_SIZE")
	assert.Contains(t, err.Error(), "JOB_WORKER_COUNT")
}

func TestValidateRejectsEmptyDBPath(t *testing.T) {
	cfg := config.Load()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH")
}
