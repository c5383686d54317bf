package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled       = "DOCSYNTH_RATE_LIMIT_ENABLED"
	EnvDefaultLimit  = "DOCSYNTH_RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow = "DOCSYNTH_RATE_LIMIT_DEFAULT_WINDOW"
	EnvGenerateLimit = "DOCSYNTH_RATE_LIMIT_GENERATE_LIMIT"
	EnvWhitelist     = "DOCSYNTH_RATE_LIMIT_WHITELIST"
	EnvBlacklist     = "DOCSYNTH_RATE_LIMIT_BLACKLIST"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (trailing "/" means prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the built-in limits
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(30),
	}
}

// LoadConfig loads rate limiting configuration through getenv, on top of DefaultConfig.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool(getenv, EnvEnabled, true)
	if !cfg.Enabled {
		return cfg
	}

	cfg.DefaultLimit = envInt(getenv, EnvDefaultLimit, cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration(getenv, EnvDefaultWindow, cfg.DefaultWindow)
	cfg.EndpointConfigs = DefaultEndpointConfigs(envInt(getenv, EnvGenerateLimit, 30))
	cfg.Whitelist = parseIPList(getenv(EnvWhitelist))
	cfg.Blacklist = parseIPList(getenv(EnvBlacklist))
	return cfg
}

// DefaultEndpointConfigs returns the endpoint-specific limits. generatePerHour bounds
// POST /v1/generate, which may spend paid provider quota.
func DefaultEndpointConfigs(generatePerHour int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/v1/generate", Method: "POST", Limit: generatePerHour, Window: time.Hour, Burst: 5},
		{Path: "/v1/documents", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/v1/documents/", Method: "GET", Limit: 600, Window: time.Minute, Burst: 60},
	}
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envBool(getenv func(string) string, key string, defaultValue bool) bool {
	if value := getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
