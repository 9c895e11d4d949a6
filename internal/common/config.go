// Package common provides shared utilities for Cambio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Cambio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Rates       RatesConfig   `toml:"rates"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// RatesConfig configures rate resolution behavior.
type RatesConfig struct {
	// DefaultBase is the currency code used as conversion target when the
	// caller does not name one and no base currency is stored yet.
	DefaultBase string `toml:"default_base"`

	// Intermediates is the ordered routing table for two-hop resolution.
	// When multiple intermediates produce a path, the first match wins —
	// ordering here is load-bearing for reproducible conversions.
	Intermediates []string `toml:"intermediates"`

	// IngestPerSecond limits how many rate quotes per second the ingest
	// endpoint accepts from sync jobs. Zero disables the limiter.
	IngestPerSecond float64 `toml:"ingest_per_second"`
	IngestBurst     int     `toml:"ingest_burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "cambio",
			Database:  "cambio",
			Username:  "root",
			Password:  "root",
		},
		Rates: RatesConfig{
			DefaultBase:     "USD",
			Intermediates:   []string{"USDT", "USD"},
			IngestPerSecond: 20,
			IngestBurst:     40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeRates(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CAMBIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CAMBIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CAMBIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CAMBIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("CAMBIO_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("CAMBIO_STORAGE_NAMESPACE"); v != "" {
		config.Storage.Namespace = v
	}
	if v := os.Getenv("CAMBIO_STORAGE_DATABASE"); v != "" {
		config.Storage.Database = v
	}
	if v := os.Getenv("CAMBIO_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("CAMBIO_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("CAMBIO_DEFAULT_BASE"); v != "" {
		config.Rates.DefaultBase = strings.ToUpper(v)
	}
	if v := os.Getenv("CAMBIO_INTERMEDIATES"); v != "" {
		var codes []string
		for _, c := range strings.Split(v, ",") {
			c = strings.ToUpper(strings.TrimSpace(c))
			if c != "" {
				codes = append(codes, c)
			}
		}
		if len(codes) > 0 {
			config.Rates.Intermediates = codes
		}
	}
}

// normalizeRates uppercases currency codes and drops duplicate intermediates
// while preserving their configured priority order.
func normalizeRates(config *Config) {
	config.Rates.DefaultBase = strings.ToUpper(strings.TrimSpace(config.Rates.DefaultBase))

	seen := make(map[string]bool)
	var cleaned []string
	for _, c := range config.Rates.Intermediates {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cleaned = append(cleaned, c)
	}
	config.Rates.Intermediates = cleaned
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
