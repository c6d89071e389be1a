package config

import (
	"os"
	"strconv"
	"time"

	"hatebench/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Limits   LimitsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset handling settings
type DataConfig struct {
	Dir          string  // base directory for relative dataset paths
	DefaultSeed  int64   // split seed when a request supplies none
	DefaultRatio float64 // train fraction when a request supplies none
}

// DatabaseConfig holds the optional experiment archive connection. An empty
// URL disables archiving.
type DatabaseConfig struct {
	URL string
}

// LimitsConfig holds resource ceilings for training-time work
type LimitsConfig struct {
	TrainBudget    time.Duration // default neural training budget
	SweepParallel  int           // concurrent runs in a benchmark sweep
	MaxRequestSize int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			Dir:          getEnvOrDefault("DATA_DIR", "./data"),
			DefaultSeed:  getEnvInt64OrDefault("BENCH_SEED", 42),
			DefaultRatio: getEnvFloatOrDefault("BENCH_TRAIN_RATIO", 0.8),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Limits: LimitsConfig{
			TrainBudget:    time.Duration(getEnvInt64OrDefault("TRAIN_BUDGET_MS", 60_000)) * time.Millisecond,
			SweepParallel:  int(getEnvInt64OrDefault("SWEEP_PARALLEL", 4)),
			MaxRequestSize: getEnvInt64OrDefault("MAX_REQUEST_BYTES", 1<<20),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Data.DefaultRatio <= 0 || cfg.Data.DefaultRatio >= 1 {
		return errors.ConfigInvalid("BENCH_TRAIN_RATIO must be in (0,1)")
	}
	if cfg.Limits.TrainBudget <= 0 {
		return errors.ConfigInvalid("TRAIN_BUDGET_MS must be positive")
	}
	if cfg.Limits.SweepParallel < 1 {
		return errors.ConfigInvalid("SWEEP_PARALLEL must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64OrDefault(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
