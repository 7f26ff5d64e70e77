// Package llm provides LLM configuration and client abstractions.
package llm

import (
	"os"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-2.0-flash"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultGeminiModel,
		Temperature: 0.1,
	}
}

// ConfigFromEnv returns the default configuration with GEMINI_MODEL applied.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if model := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); model != "" {
		cfg.Model = model
	}
	return cfg
}

// WithModel returns a copy of the config using a different model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
