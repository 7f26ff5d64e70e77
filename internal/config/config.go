// Package config loads process configuration from the environment and CLI config files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxUploadBytes bounds the multipart body of an assessment request.
const DefaultMaxUploadBytes = 12 << 20

// ServerConfig is read once at startup.
type ServerConfig struct {
	Port           string
	LogMode        string
	GeminiAPIKey   string
	GeminiModel    string
	DemoMode       bool
	AssessTimeout  time.Duration
	MaxUploadBytes int64
	DatabaseURL    string
	RedisAddr      string
	AllowedOrigin  string
}

// NewServerConfig reads PORT, LOG_MODE, GEMINI_API_KEY, GEMINI_MODEL, DEMO_MODE,
// ASSESS_TIMEOUT, MAX_UPLOAD_BYTES, DATABASE_URL, REDIS_ADDR and CORS_ALLOWED_ORIGIN.
func NewServerConfig() (*ServerConfig, error) {
	demo, err := envBool("DEMO_MODE", false)
	if err != nil {
		return nil, err
	}
	timeout, err := envDuration("ASSESS_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	maxUpload, err := envInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	config := &ServerConfig{
		Port:           envString("PORT", "5050"),
		LogMode:        envString("LOG_MODE", "development"),
		GeminiAPIKey:   envString("GEMINI_API_KEY", ""),
		GeminiModel:    envString("GEMINI_MODEL", ""),
		DemoMode:       demo,
		AssessTimeout:  timeout,
		MaxUploadBytes: int64(maxUpload),
		DatabaseURL:    envString("DATABASE_URL", ""),
		RedisAddr:      envString("REDIS_ADDR", ""),
		AllowedOrigin:  envString("CORS_ALLOWED_ORIGIN", "*"),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ServerConfig) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.AssessTimeout <= 0 {
		return fmt.Errorf("ASSESS_TIMEOUT must be positive, got: %s", c.AssessTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got: %d", c.MaxUploadBytes)
	}
	return nil
}

// CLIConfig holds defaults for the command line client. Every field is optional;
// flags override file values.
type CLIConfig struct {
	StorePath string `json:"store_path,omitempty"` // skill store JSON file
	APIKey    string `json:"api_key,omitempty"`    // Gemini API key
	Model     string `json:"model,omitempty"`      // Gemini model name
	GoalRole  string `json:"goal_role,omitempty"`  // default role profile
	DemoMode  bool   `json:"demo_mode,omitempty"`  // always use the fallback assessment
	Verbose   bool   `json:"verbose,omitempty"`
}

// LoadCLIConfig reads a JSON config file. Relative paths resolve against the working directory.
func LoadCLIConfig(path string) (*CLIConfig, error) {
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

	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// MergeWithDefaults fills empty string fields from defaults. Bools are not merged
// because an unset bool cannot be told apart from false.
func (c *CLIConfig) MergeWithDefaults(defaults CLIConfig) CLIConfig {
	result := *c
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.GoalRole == "" {
		result.GoalRole = defaults.GoalRole
	}
	return result
}
