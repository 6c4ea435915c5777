// Package config provides configuration for the support-chat service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// CatalogPath points at the YAML intent catalog imported into the
	// store when it is empty (and on admin reload). Empty disables the
	// file import and the store contents are used as-is.
	CatalogPath string

	// Timeouts
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:     getEnv("DATABASE_URL", "file:botclaro.db?cache=shared&mode=rwc"),
		CatalogPath:     getEnv("CATALOG_PATH", "intents.yaml"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_MS", 10000)) * time.Millisecond,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
