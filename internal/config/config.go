package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAddr      = ":8080"
	DefaultDBPath    = "nadzor.sqlite3"
	DefaultPageLimit = 10
)

// Config carries the console's runtime settings. The backend base URL is the
// one externally supplied value; everything else has a default.
type Config struct {
	APIBaseURL string // base URL of the backend REST API
	Addr       string // listen address
	DBPath     string // SQLite session database path
	LogPath    string // optional log file
	PageLimit  int    // rows per collection page
}

// Load reads configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env file not loaded, using environment only", "error", err)
	}

	cfg := &Config{
		APIBaseURL: os.Getenv("NADZOR_API_URL"),
		Addr:       envDefault("NADZOR_ADDR", DefaultAddr),
		DBPath:     envDefault("NADZOR_DB", DefaultDBPath),
		LogPath:    os.Getenv("NADZOR_LOG"),
		PageLimit:  DefaultPageLimit,
	}

	if v := os.Getenv("NADZOR_PAGE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("NADZOR_PAGE_LIMIT %q must be a positive integer", v)
		}
		cfg.PageLimit = limit
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("NADZOR_API_URL is required (base URL of the backend API)")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
