// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Events (optional; empty disables publishing)
	KafkaBrokers []string

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment, applying defaults.
// getenv is injectable for tests; pass os.Getenv in production.
func Load(getenv func(string) string) *Config {
	return &Config{
		Port:           envOr(getenv, "PORT", "8080"),
		SQLiteDBPath:   envOr(getenv, "SQLITE_DB_PATH", "./data/sharein.db"),
		JWTSecret:      getenv("JWT_SECRET"),
		TokenDuration:  envDuration(getenv, "TOKEN_DURATION", 24*time.Hour),
		KafkaBrokers:   envList(getenv, "KAFKA_BROKERS"),
		AllowedOrigins: envList(getenv, "ALLOWED_ORIGINS"),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "SQLite database path cannot be empty")
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}

	if c.TokenDuration <= 0 {
		problems = append(problems, "token duration must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	raw := getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func envList(getenv func(string) string, key string) []string {
	raw := getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
