// Package config loads server configuration from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Port         int
	DBPath       string
	LogDir       string
	SettingsFile string
	CORSOrigins  []string
	Verbose      bool

	// DotEnvLoaded is false when there was no .env in the working directory.
	DotEnvLoaded bool

	// Warnings lists values that were ignored. Load runs before logging is
	// set up, so the caller logs them.
	Warnings []string
}

// Load reads .env from the working directory (if present) and then the
// environment. Variables already set in the environment win.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{DotEnvLoaded: godotenv.Load() == nil}

	cfg.Port = cfg.getEnvInt("PORT", 8080)
	cfg.DBPath = getEnv("DB_PATH", "planner.db")
	cfg.LogDir = getEnv("LOGS_FOLDER", "")
	cfg.SettingsFile = getEnv("SETTINGS_FILE", "")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"))
	cfg.Verbose = cfg.getEnvBool("VERBOSE", false)
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *AppConfig) getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		c.Warnings = append(c.Warnings, fmt.Sprintf("ignoring non-numeric %s=%q, using %d", key, value, fallback))
	}
	return fallback
}

func (c *AppConfig) getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		c.Warnings = append(c.Warnings, fmt.Sprintf("ignoring non-boolean %s=%q, using %t", key, value, fallback))
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
