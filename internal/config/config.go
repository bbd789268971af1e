package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBPath        string
	LogLevel      string
	JWTSecret     string
	TokenTTLHours int
	InitialRating int
	EloKFactor    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("ADDR", ":8080"),
		DBPath:        envOr("DB_PATH", "file:chessmates.db"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),
		JWTSecret:     envOr("JWT_SECRET", ""),
		TokenTTLHours: envIntOr("TOKEN_TTL_HOURS", 72),
		InitialRating: envIntOr("INITIAL_RATING", 1000),
		EloKFactor:    envIntOr("ELO_K_FACTOR", 32),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.TokenTTLHours <= 0 {
		problems = append(problems, "TOKEN_TTL_HOURS must be positive")
	}
	if c.InitialRating <= 0 {
		problems = append(problems, "INITIAL_RATING must be positive")
	}
	if c.EloKFactor <= 0 {
		problems = append(problems, "ELO_K_FACTOR must be positive")
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
