// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/types"
)

// Environment variables that override file values
const (
	EnvPort           = "DOCSYNTH_PORT"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRedisURL       = "REDIS_URL"
	EnvCatalog        = "DOCSYNTH_CATALOG"
	EnvAttemptTimeout = "DOCSYNTH_ATTEMPT_TIMEOUT"
)

// Default values
const (
	DefaultPort           = 8080
	DefaultAttemptTimeout = "30s"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or are provided via CLI flags.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP listen port for serve
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for quotation numbering
	CatalogPath string `json:"catalog,omitempty"`      // Pricing catalog YAML replacing the embedded one

	// Provider chain
	AttemptTimeout     string            `json:"attempt_timeout,omitempty"` // Per-provider timeout, e.g. "30s"
	DefaultTemperature float64           `json:"default_temperature,omitempty"`
	DefaultMaxTokens   int               `json:"default_max_tokens,omitempty"`
	Models             map[string]string `json:"models,omitempty"`    // Model override per provider kind
	BaseURLs           map[string]string `json:"base_urls,omitempty"` // Endpoint override per provider kind

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:               DefaultPort,
		AttemptTimeout:     DefaultAttemptTimeout,
		DefaultTemperature: llm.DefaultTemperature,
		DefaultMaxTokens:   llm.DefaultMaxTokens,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v := strings.TrimSpace(getenv(EnvDatabaseURL)); v != "" {
		c.DatabaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisURL)); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(getenv(EnvCatalog)); v != "" {
		c.CatalogPath = v
	}
	if v := strings.TrimSpace(getenv(EnvAttemptTimeout)); v != "" {
		c.AttemptTimeout = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required values are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.AttemptTimeout != "" {
		d, err := time.ParseDuration(c.AttemptTimeout)
		if err != nil {
			return fmt.Errorf("config error: 'attempt_timeout' is not a duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'attempt_timeout' must be positive")
		}
	}
	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return fmt.Errorf("config error: 'default_temperature' must be between 0 and 2")
	}
	if c.DefaultMaxTokens < 0 {
		return fmt.Errorf("config error: 'default_max_tokens' must be non-negative")
	}
	for kind := range c.Models {
		if !knownProvider(kind) {
			return fmt.Errorf("config error: unknown provider %q in 'models'", kind)
		}
	}
	for kind := range c.BaseURLs {
		if !knownProvider(kind) {
			return fmt.Errorf("config error: unknown provider %q in 'base_urls'", kind)
		}
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.AttemptTimeout == "" {
		result.AttemptTimeout = defaults.AttemptTimeout
	}
	if result.DefaultTemperature == 0 {
		result.DefaultTemperature = defaults.DefaultTemperature
	}
	if result.DefaultMaxTokens == 0 {
		result.DefaultMaxTokens = defaults.DefaultMaxTokens
	}

	result.Models = mergeMap(defaults.Models, c.Models)
	result.BaseURLs = mergeMap(defaults.BaseURLs, c.BaseURLs)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// AttemptTimeoutDuration parses AttemptTimeout, falling back to the default
func (c *Config) AttemptTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.AttemptTimeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultAttemptTimeout)
	return d
}

// LLMConfig returns the provider configuration with the file's overrides applied
func (c *Config) LLMConfig() *llm.Config {
	out := llm.DefaultConfig()
	for kind, model := range c.Models {
		out = out.WithModel(types.ProviderKind(kind), model)
	}
	for kind, url := range c.BaseURLs {
		out = out.WithBaseURL(types.ProviderKind(kind), url)
	}
	return out
}

// Params returns the default generation parameters
func (c *Config) Params() llm.Params {
	return llm.Params{Temperature: c.DefaultTemperature, MaxTokens: c.DefaultMaxTokens}.WithDefaults()
}

func knownProvider(kind string) bool {
	return llm.EnvVar(types.ProviderKind(kind)) != ""
}

func mergeMap(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
