package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the agtail configuration loaded from environment variables.
type Config struct {
	// Endpoint is the AG-UI SSE endpoint to consume.
	Endpoint string
	// AuthToken, when set, is sent as a bearer Authorization header.
	AuthToken string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// DBPath enables SQLite persistence of finished runs when non-empty.
	DBPath string

	Reconnect   bool
	QueueSize   int
	ConnTimeout time.Duration
	// ShowState prints the reconciled state document with each finished run.
	ShowState bool
}

// LoadConfig loads configuration from environment variables. A .env file is
// loaded first if present.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Endpoint:    os.Getenv("AGTAIL_ENDPOINT"),
		AuthToken:   os.Getenv("AGTAIL_AUTH_TOKEN"),
		LogLevel:    getEnvOrDefault("AGTAIL_LOG_LEVEL", "info"),
		DBPath:      os.Getenv("AGTAIL_DB"),
		Reconnect:   getEnvBoolOrDefault("AGTAIL_RECONNECT", true),
		QueueSize:   getEnvIntOrDefault("AGTAIL_QUEUE_SIZE", 256),
		ConnTimeout: getEnvDurationOrDefault("AGTAIL_CONNECT_TIMEOUT", 30*time.Second),
		ShowState:   getEnvBoolOrDefault("AGTAIL_SHOW_STATE", false),
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("AGTAIL_ENDPOINT is required")
	}
	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
