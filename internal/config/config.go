package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL           string
	APIToken             string
	DBPath               string
	LogLevel             string
	HistorySize          int
	CacheBatchSize       int
	RevealGraceMs        int
	ProbeIntervalSeconds int
	JobWorkerCount       int
	JobQueueSize         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:           envOr("API_BASE_URL", "http://localhost:8080/api/v1"),
		APIToken:             envOr("API_TOKEN", ""),
		DBPath:               envOr("DB_PATH", "file:sentencease.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		HistorySize:          envIntOr("HISTORY_SIZE", 10),
		CacheBatchSize:       envIntOr("CACHE_BATCH_SIZE", 20),
		RevealGraceMs:        envIntOr("REVEAL_GRACE_MS", 300),
		ProbeIntervalSeconds: envIntOr("PROBE_INTERVAL_SECONDS", 15),
		JobWorkerCount:       envIntOr("JOB_WORKER_COUNT", 1),
		JobQueueSize:         envIntOr("JOB_QUEUE_SIZE", 16),
	}
}

// Validate checks the configuration for values that would break the
// client at runtime. All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.APIBaseURL == "" {
		problems = append(problems, "API_BASE_URL cannot be empty")
	} else if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("API_BASE_URL is not a valid URL: %q", c.APIBaseURL))
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.HistorySize < 1 {
		problems = append(problems, "HISTORY_SIZE must be at least 1")
	}
	if c.CacheBatchSize < 0 {
		problems = append(problems, "CACHE_BATCH_SIZE cannot be negative")
	}
	if c.RevealGraceMs < 0 {
		problems = append(problems, "REVEAL_GRACE_MS cannot be negative")
	}
	if c.ProbeIntervalSeconds < 1 {
		problems = append(problems, "PROBE_INTERVAL_SECONDS must be at least 1")
	}
	if c.JobWorkerCount < 1 {
		problems = append(problems, "JOB_WORKER_COUNT must be at least 1")
	}
	if c.JobQueueSize < 1 {
		problems = append(problems, "JOB_QUEUE_SIZE must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
