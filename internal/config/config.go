package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Archive  ArchiveConfig
	Pricing  PricingConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for authentication
}

// Storage backends for the persisted cart, menu and last order
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type StorageConfig struct {
	Backend       string
	Namespace     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string
}

// Archive backends for confirmed orders
const (
	ArchiveNone     = "none"
	ArchiveSQLite   = "sqlite"
	ArchivePostgres = "postgres"
)

type ArchiveConfig struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
}

type PricingConfig struct {
	TaxRate    decimal.Decimal
	PromoFiles []string
	PromoURLs  []string

	// Bulk lists hold bare codes that all share BulkPercent
	BulkFiles   []string
	BulkURLs    []string
	BulkPercent int
}

// Load reads an optional .env file, then environment variables.
// Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	taxRate, err := getEnvAsDecimal("TAX_RATE", decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
			Namespace:     getEnv("STORAGE_NAMESPACE", "restaurant"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:       getEnv("MONGO_DB", "restaurant"),
		},
		Archive: ArchiveConfig{
			Backend:     strings.ToLower(getEnv("ARCHIVE_BACKEND", ArchiveNone)),
			SQLitePath:  getEnv("SQLITE_PATH", "./data/orders.db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Pricing: PricingConfig{
			TaxRate:    taxRate,
			PromoFiles: getEnvAsSlice("PROMO_FILES", nil),
			PromoURLs:  getEnvAsSlice("PROMO_URLS", nil),

			BulkFiles:   getEnvAsSlice("PROMO_BULK_FILES", nil),
			BulkURLs:    getEnvAsSlice("PROMO_BULK_URLS", nil),
			BulkPercent: getEnvAsInt("PROMO_BULK_PERCENT", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case StorageMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDB == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DB are required for the mongo backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be memory, redis, or mongo)", c.Storage.Backend)
	}

	switch c.Archive.Backend {
	case ArchiveNone:
	case ArchiveSQLite:
		if c.Archive.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite archive")
		}
	case ArchivePostgres:
		if c.Archive.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres archive")
		}
	default:
		return fmt.Errorf("invalid archive backend: %s (must be none, sqlite, or postgres)", c.Archive.Backend)
	}

	if c.Pricing.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative")
	}

	if c.Pricing.BulkPercent < 0 || c.Pricing.BulkPercent > 100 {
		return fmt.Errorf("PROMO_BULK_PERCENT must be between 0 and 100")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
