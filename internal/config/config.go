package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Reference ReferenceConfig
	Snapshot  SnapshotConfig
	Risk      RiskConfig
	Quotes    QuotesConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// LedgerConfig points at the holdings ledger file
type LedgerConfig struct {
	Path string
}

// ReferenceConfig points at the reference data file imported at startup.
// An empty path skips the import and serves what the database already holds.
type ReferenceConfig struct {
	Path string
}

// SnapshotConfig holds the policy values used when computing a snapshot.
// Return assumptions are annual fractions (0.07 = 7%).
type SnapshotConfig struct {
	BaseCurrency            string
	DefaultHistoricalReturn float64
	DefaultForwardReturn    float64
}

// RiskConfig holds externally computed risk metrics reported in every snapshot
type RiskConfig struct {
	Beta        float64
	MaxDrawdown float64
	Volatility  float64
}

// QuotesConfig controls the quote refresh job
type QuotesConfig struct {
	RefreshSchedule string // cron spec; empty disables scheduled refreshes
	Concurrency     int
	Timeout         time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	historical, err := getEnvFloat("DEFAULT_HISTORICAL_RETURN", 0.07)
	if err != nil {
		return nil, err
	}
	forward, err := getEnvFloat("DEFAULT_FORWARD_RETURN", 0.08)
	if err != nil {
		return nil, err
	}
	beta, err := getEnvFloat("RISK_BETA", 0)
	if err != nil {
		return nil, err
	}
	drawdown, err := getEnvFloat("RISK_MAX_DRAWDOWN", 0)
	if err != nil {
		return nil, err
	}
	volatility, err := getEnvFloat("RISK_VOLATILITY", 0)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("QUOTE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("QUOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_snapshot.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
		},
		Ledger: LedgerConfig{
			Path: getEnv("LEDGER_PATH", "./data/holdings.toml"),
		},
		Reference: ReferenceConfig{
			Path: os.Getenv("REFERENCE_PATH"),
		},
		Snapshot: SnapshotConfig{
			BaseCurrency:            strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
			DefaultHistoricalReturn: historical,
			DefaultForwardReturn:    forward,
		},
		Risk: RiskConfig{
			Beta:        beta,
			MaxDrawdown: drawdown,
			Volatility:  volatility,
		},
		Quotes: QuotesConfig{
			RefreshSchedule: os.Getenv("QUOTE_REFRESH_SCHEDULE"),
			Concurrency:     concurrency,
			Timeout:         timeout,
		},
	}
	if _, set := os.LookupEnv("QUOTE_REFRESH_SCHEDULE"); !set {
		config.Quotes.RefreshSchedule = "@every 15m"
	}

	if len(config.Snapshot.BaseCurrency) != 3 {
		return nil, fmt.Errorf("%w: BASE_CURRENCY %q is not a 3-letter code", apperrors.ErrInvalidConfiguration, config.Snapshot.BaseCurrency)
	}
	if config.Quotes.Concurrency < 1 {
		return nil, fmt.Errorf("%w: QUOTE_CONCURRENCY must be at least 1", apperrors.ErrInvalidConfiguration)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", apperrors.ErrInvalidConfiguration, key, value)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", apperrors.ErrInvalidConfiguration, key, value)
	}
	return i, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", apperrors.ErrInvalidConfiguration, key, value)
	}
	return d, nil
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
