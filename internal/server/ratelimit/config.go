package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one method and path.
// A Path ending in "/" matches every path under it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity; defaults to Limit
}

func (e *EndpointConfig) key(path string) string {
	if e.Path != "" {
		return e.Path
	}
	return path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used when no environment overrides are set.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Blocklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* variables on top of DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Allowlist = parseIPList(os.Getenv("RATE_LIMIT_ALLOWLIST"))
	cfg.Blocklist = parseIPList(os.Getenv("RATE_LIMIT_BLOCKLIST"))
	return cfg
}

// DefaultEndpointConfigs returns per-endpoint limits. Model calls and anything
// that sends email or checks a secret are the tightest.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/assess-skill", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		{Path: "/auth/signup", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/resend-otp", Method: "POST", Limit: 5, Window: 15 * time.Minute, Burst: 2},
		{Path: "/auth/verify-otp", Method: "POST", Limit: 10, Window: 15 * time.Minute, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: 15 * time.Minute, Burst: 5},

		{Path: "/api/jobs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/score", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/api/match", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
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
