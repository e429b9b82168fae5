package config

import (
	"fmt"
	"time"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/spf13/viper"
)

const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiToken   = "$GEMINI_API_KEY"
)

// Config holds the configuration for the generation backend
type Config struct {
	Model          string        `toml:"model" mapstructure:"model"`
	GeminiBaseURL  string        `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiToken    string        `toml:"gemini_token" mapstructure:"gemini_token"`       // $VAR references are expanded on load
	RequestTimeout time.Duration `toml:"request_timeout" mapstructure:"request_timeout"` // 0 = wait forever
}

// GetModel returns the model identifier
func (c *Config) GetModel() string {
	return c.Model
}

// GetRequestTimeout returns the per-request deadline, 0 meaning none
func (c *Config) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Model:          DefaultModel,
		GeminiBaseURL:  DefaultGeminiBaseURL,
		GeminiToken:    DefaultGeminiToken, // Default to env var
		RequestTimeout: 0,
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	model, err := drill.ParseModelID(config.Model)
	if err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	config.Model = model

	if config.RequestTimeout < 0 {
		return nil, fmt.Errorf("request_timeout cannot be negative: %s", config.RequestTimeout)
	}

	config.GeminiBaseURL = expandEnvVar(config.GeminiBaseURL)
	config.GeminiToken = expandEnvVar(config.GeminiToken)

	return config, nil
}
