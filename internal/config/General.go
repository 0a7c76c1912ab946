package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function; every key has a default.
var (
	// FarmConcurrency is the number of farms valued at the same time. 1 keeps farms sequential.
	FarmConcurrency int
	// RefreshInterval is the time between two refresh cycles.
	RefreshInterval time.Duration
	// HTTPTimeout is the per-request timeout of every upstream call.
	HTTPTimeout time.Duration

	// WebPort is the port of the read-only HTTP API.
	WebPort string
	// LogLevel is one of debug, info, warn, error, disabled.
	LogLevel string
	// RunOnce computes a single snapshot, prints it as JSON and exits.
	RunOnce bool

	// FarmsFile optionally replaces the built-in farm list with a JSON file.
	FarmsFile string
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	FarmConcurrency, err = getEnvAsIntOrDefault("FARM_CONCURRENCY", 1)
	if err != nil {
		return err
	}
	if FarmConcurrency < 1 {
		return errors.New("environment variable FARM_CONCURRENCY must be at least 1")
	}

	RefreshInterval, err = getEnvAsDurationOrDefault("REFRESH_INTERVAL", 10*time.Minute)
	if err != nil {
		return err
	}

	HTTPTimeout, err = getEnvAsDurationOrDefault("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return err
	}

	RunOnce, err = getEnvAsBoolOrDefault("RUN_ONCE", false)
	if err != nil {
		return err
	}

	WebPort = getEnvOrDefault("WEB_PORT", "8080")
	LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	FarmsFile = getEnvOrDefault("FARMS_FILE", "")

	// Load endpoint configuration
	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Int("FarmConcurrency", FarmConcurrency).
		Dur("RefreshInterval", RefreshInterval).
		Dur("HTTPTimeout", HTTPTimeout).
		Str("WebPort", WebPort).
		Bool("RunOnce", RunOnce).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable, falling back when unset or blank.
func getEnvOrDefault(key, fallback string) string {
	value, err := getEnv(key)
	if err != nil || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func getEnvAsUint64OrDefault(key string, fallback uint64) (uint64, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid uint64, got: " + valueStr)
	}
	return value, nil
}

func getEnvAsIntOrDefault(key string, fallback int) (int, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + valueStr)
	}
	return value, nil
}

func getEnvAsBoolOrDefault(key string, fallback bool) (bool, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, errors.New("environment variable " + key + " must be a valid bool, got: " + valueStr)
	}
	return value, nil
}

// getEnvAsDurationOrDefault accepts Go durations ("90s", "10m").
func getEnvAsDurationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return 0, errors.New("environment variable " + key + " must be a positive duration, got: " + valueStr)
	}
	return value, nil
}
