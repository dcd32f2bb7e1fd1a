// Package common provides shared utilities for tickerscope
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for tickerscope
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Auth        AuthConfig    `toml:"auth"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds persistent store configuration.
// Driver is "surrealdb" or "memory" (dev/test).
type StorageConfig struct {
	Driver    string `toml:"driver"`
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo     YahooConfig     `toml:"yahoo"`
	Translate TranslateConfig `toml:"translate"`
}

// YahooConfig holds Yahoo Finance client configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// TranslateConfig holds translation client configuration
type TranslateConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TranslateConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
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
			Driver:    "surrealdb",
			Address:   "ws://localhost:8000",
			Namespace: "tickerscope",
			Database:  "tickerscope",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Translate: TranslateConfig{
				BaseURL: "https://translate.googleapis.com",
				Timeout: "10s",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
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

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERSCOPE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TICKERSCOPE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TICKERSCOPE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TICKERSCOPE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("TICKERSCOPE_STORAGE_DRIVER"); v != "" {
		config.Storage.Driver = v
	}
	if v := os.Getenv("TICKERSCOPE_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("TICKERSCOPE_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("TICKERSCOPE_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("TICKERSCOPE_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("TICKERSCOPE_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
