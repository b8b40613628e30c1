package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                string
	PostgresDSN         string
	PlacementAttempts   int
	PlacementRetryDelay time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
	}
	if raw := strings.TrimSpace(os.Getenv("PLACEMENT_MAX_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("PLACEMENT_MAX_ATTEMPTS must be a positive integer")
		}
		cfg.PlacementAttempts = attempts
	}
	if raw := strings.TrimSpace(os.Getenv("PLACEMENT_RETRY_BASE_MS")); raw != "" {
		millis, err := strconv.Atoi(raw)
		if err != nil || millis < 0 {
			return Config{}, fmt.Errorf("PLACEMENT_RETRY_BASE_MS must be a non-negative integer")
		}
		cfg.PlacementRetryDelay = time.Duration(millis) * time.Millisecond
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
