package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	PolicyPath   string
	APIToken     string
	LogLevel     string
	Port         int
	DevMode      bool
	AuditEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("ADVISOR_PORT", 8002),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		DatabasePath: getEnv("DATABASE_PATH", "./data/advisor.db"),
		PolicyPath:   getEnv("POLICY_PATH", "./config/policy.yaml"),
		APIToken:     getEnv("ADVISOR_API_TOKEN", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		AuditEnabled: getEnvAsBool("AUDIT_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.AuditEnabled && c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required when auditing is enabled")
	}

	// Note: API token optional; without one the /api routes are open (dev setups)

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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
