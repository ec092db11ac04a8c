package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings. MaxBytes caps the total bytes of keys
// and values the store may own; zero means unbounded.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	MaxBytes int64  `yaml:"max_bytes"`
	LogLevel string `yaml:"log_level"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise it falls back to environment variables. Environment variables
// override file values either way.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			// If path was explicitly provided but file doesn't exist, return error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	// Set defaults if not provided
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Validate
	if cfg.MaxBytes < 0 {
		return nil, fmt.Errorf("max_bytes must be >= 0, got %d", cfg.MaxBytes)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", cfg.LogLevel)
	}

	return &cfg, nil
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("MEMBOX_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("MEMBOX_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MEMBOX_MAX_BYTES value: %w", err)
		}
		cfg.MaxBytes = n
	}
	if v := os.Getenv("MEMBOX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
