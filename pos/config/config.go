// Package config reads worker and starter settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds every setting the worker and starter need
type Config struct {
	TemporalHost      string
	Namespace         string
	TaskQueue         string
	StoreBackend      string
	StoreDir          string
	RedisURL          string
	CatalogKey        string
	ReceiptDir        string
	ReceiptLocale     string
	IdleTimeout       time.Duration
	MaxReceiptsPerRun int
	LogLevel          string
}

// Load reads an optional .env file, then the environment
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TemporalHost:  getEnv("TEMPORAL_HOST", "localhost:7233"),
		Namespace:     getEnv("TEMPORAL_NAMESPACE", "default"),
		TaskQueue:     getEnv("POS_TASK_QUEUE", "pos-task-queue"),
		StoreBackend:  getEnv("POS_STORE", StoreFile),
		StoreDir:      getEnv("POS_STORE_DIR", "./data"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CatalogKey:    getEnv("POS_CATALOG_KEY", "itemList"),
		ReceiptDir:    os.Getenv("POS_RECEIPT_DIR"),
		ReceiptLocale: getEnv("POS_RECEIPT_LOCALE", "id"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	idle, err := time.ParseDuration(getEnv("POS_IDLE_TIMEOUT", "8h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid POS_IDLE_TIMEOUT: %w", err)
	}
	cfg.IdleTimeout = idle

	maxReceipts, err := strconv.Atoi(getEnv("POS_MAX_RECEIPTS_PER_RUN", "500"))
	if err != nil || maxReceipts < 0 {
		return Config{}, fmt.Errorf("invalid POS_MAX_RECEIPTS_PER_RUN %q", os.Getenv("POS_MAX_RECEIPTS_PER_RUN"))
	}
	cfg.MaxReceiptsPerRun = maxReceipts

	switch cfg.StoreBackend {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown POS_STORE %q (use file, redis or memory)", cfg.StoreBackend)
	}

	return cfg, nil
}

// ExportEnabled reports whether receipts are written out after generation
func (c Config) ExportEnabled() bool {
	return c.ReceiptDir != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
