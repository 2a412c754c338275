package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string `koanf:"database_url"`

	// Ticketing API configuration
	APIBaseURL string `koanf:"api_base_url"`
	APIKey     string `koanf:"api_key"`
	PageSize   int    `koanf:"page_size"`

	// Feed configuration
	DefaultCity   string        `koanf:"default_city"`
	FeedKeepAlive time.Duration `koanf:"feed_keep_alive"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		APIBaseURL:    "https://app.ticketmaster.com/discovery/v2",
		PageSize:      10,
		DefaultCity:   "Chicago",
		FeedKeepAlive: 5 * time.Second,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVENTHOUND_CONFIG is set
//  3. env (prefix EVENTHOUND_)
func Load() (*Config, error) {
	// Local development overrides, ignored when absent
	_ = godotenv.Load("config/local.env")

	k := koanf.New(".")

	if path := os.Getenv("EVENTHOUND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Environment variables: EVENTHOUND_DATABASE_URL, EVENTHOUND_API_KEY, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("EVENTHOUND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "eventhound_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "EVENTHOUND_DATABASE_URL is required")
	}
	if c.APIBaseURL == "" {
		errs = append(errs, "EVENTHOUND_API_BASE_URL must not be empty")
	}
	if c.APIKey == "" {
		errs = append(errs, "EVENTHOUND_API_KEY is required")
	}
	if c.PageSize < 1 {
		errs = append(errs, "EVENTHOUND_PAGE_SIZE must be positive")
	}
	if c.DefaultCity == "" {
		errs = append(errs, "EVENTHOUND_DEFAULT_CITY must not be empty")
	}
	if c.FeedKeepAlive < 0 {
		errs = append(errs, "EVENTHOUND_FEED_KEEP_ALIVE must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		errs = append(errs, "EVENTHOUND_LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.LogFormat] {
		errs = append(errs, "EVENTHOUND_LOG_FORMAT must be one of: json, text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
