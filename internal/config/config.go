// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	APIURL          string        // Positions endpoint, expected to return a JSON array
	DataDir         string        // Holds the preferences database and log file (always absolute)
	LogLevel        string        // debug, info, warn, error
	MaxRetries      int           // Total fetch attempts before giving up
	RetryDelay      time.Duration // Fixed wait between attempts
	AttemptTimeout  time.Duration // Per-attempt request timeout
	BatchSize       int           // Cards rendered per increment
	RefreshSchedule string        // Cron spec for auto-refresh, empty disables it
	Language        string        // Initial UI language when nothing is stored yet
	Mock            MockConfig
}

// MockConfig configures the development mock API
type MockConfig struct {
	Port        int
	FixturePath string // Empty serves the embedded fixture
	FailStatus  int    // Status returned for the first FailTimes requests (0 disables)
	FailTimes   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("OPENPOS_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".openpos")
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		APIURL:          getEnv("OPENPOS_API_URL", "http://localhost:8090/api/positions"),
		DataDir:         absDataDir,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MaxRetries:      getEnvAsInt("OPENPOS_MAX_RETRIES", 3),
		RetryDelay:      getEnvAsDuration("OPENPOS_RETRY_DELAY", 2*time.Second),
		AttemptTimeout:  getEnvAsDuration("OPENPOS_ATTEMPT_TIMEOUT", 10*time.Second),
		BatchSize:       getEnvAsInt("OPENPOS_BATCH_SIZE", 15),
		RefreshSchedule: getEnv("OPENPOS_REFRESH_SCHEDULE", ""),
		Language:        getEnv("OPENPOS_LANGUAGE", "en"),
		Mock: MockConfig{
			Port:        getEnvAsInt("MOCK_PORT", 8090),
			FixturePath: getEnv("MOCK_FIXTURE", ""),
			FailStatus:  getEnvAsInt("MOCK_FAIL_STATUS", 0),
			FailTimes:   getEnvAsInt("MOCK_FAIL_TIMES", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a fetch
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.APIURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid OPENPOS_API_URL %q", c.APIURL)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("OPENPOS_MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("OPENPOS_RETRY_DELAY must not be negative")
	}
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("OPENPOS_ATTEMPT_TIMEOUT must be positive")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("OPENPOS_BATCH_SIZE must be at least 1, got %d", c.BatchSize)
	}
	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid OPENPOS_REFRESH_SCHEDULE: %w", err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
