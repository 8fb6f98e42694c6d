package app

import (
	"fmt"
	"os"
	"time"
)

// Config holds the process's configuration, loaded from environment
// variables with spec §6's Configuration block mapped onto Go types.
type Config struct {
	// DataPath is the sqlite file path the Graph Store opens.
	DataPath string `json:"dataPath"`
	// LogLevel is one of trace/debug/info/warn/error.
	LogLevel string `json:"logLevel"`
	// WriteTimeout is the health/status HTTP server's write timeout. RPC
	// verbs run without a timeout.
	WriteTimeout time.Duration `json:"writeTimeout"`
	// Environment is development or production, driving zap's config and
	// gin's mode.
	Environment string `json:"environment"`
}

// LoadConfig loads configuration from environment variables with validation.
func LoadConfig() *Config {
	config := &Config{
		DataPath:     getEnvOrDefault("DATA_PATH", "./data/nutricore.db"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		WriteTimeout: getEnvAsDurationOrDefault("WRITE_TIMEOUT", 5*time.Second),
		Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("configuration validation failed: %v", err))
	}

	return config
}

// Validate rejects an empty DataPath, a non-positive WriteTimeout, an
// unrecognized LogLevel, and an Environment other than development or
// production.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("DATA_PATH must not be empty")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be positive")
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: %v", validLogLevels)
	}

	validEnvironments := []string{"development", "production"}
	if !contains(validEnvironments, c.Environment) {
		return fmt.Errorf("ENVIRONMENT must be one of: %v", validEnvironments)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
