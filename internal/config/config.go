// Package config loads application configuration from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Scanner  ScannerConfig
	Logging  LoggingConfig
}

// ServerConfig holds the HTTP API and metrics listener configuration.
type ServerConfig struct {
	Addr        string
	MetricsAddr string
}

// DatabaseConfig holds storage backend configuration.
type DatabaseConfig struct {
	PostgresDSN   string
	ClickhouseDSN string
	// UseMemory switches all stores to in-process memory backends.
	UseMemory bool
}

// FeedConfig holds the market feed client configuration.
type FeedConfig struct {
	ProfilesURL       string
	PairsURL          string
	ChainID           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// ScannerConfig holds polling loop configuration.
type ScannerConfig struct {
	Interval time.Duration
	// InitialBalance seeds the simulated balance for memory storage.
	InitialBalance float64
	// AutoStart launches the scan loop on boot.
	AutoStart bool
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Dir   string
	Debug bool
}

// Load reads configuration from .env and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional; environment variables can be set directly.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		Database: DatabaseConfig{
			PostgresDSN:   getEnv("POSTGRES_DSN", ""),
			ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
			UseMemory:     getEnvAsBool("USE_MEMORY", false),
		},
		Feed: FeedConfig{
			ProfilesURL:       getEnv("FEED_PROFILES_URL", "https://api.dexscreener.com/token-profiles/latest/v1"),
			PairsURL:          getEnv("FEED_PAIRS_URL", "https://api.dexscreener.com/latest/dex/tokens"),
			ChainID:           getEnv("FEED_CHAIN_ID", "solana"),
			Timeout:           getEnvAsDuration("FEED_TIMEOUT", 8*time.Second),
			RequestsPerSecond: getEnvAsFloat("FEED_RATE_LIMIT", 5),
		},
		Scanner: ScannerConfig{
			Interval:       getEnvAsDuration("SCAN_INTERVAL", 10*time.Second),
			InitialBalance: getEnvAsFloat("INITIAL_BALANCE", 10.0),
			AutoStart:      getEnvAsBool("SCANNER_AUTOSTART", true),
		},
		Logging: LoggingConfig{
			Dir:   getEnv("LOG_DIR", ""),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}

	if !cfg.Database.UseMemory {
		if cfg.Database.PostgresDSN == "" || cfg.Database.ClickhouseDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN and CLICKHOUSE_DSN are required (set USE_MEMORY=true for in-memory storage)")
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
