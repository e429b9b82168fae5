package config

import (
	"os"
	"strings"
)

// expandEnvVar expands environment variable references in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	// Check if it's an environment variable reference
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	// Support both $VAR and ${VAR} syntax
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetBaseURL returns the Gemini base URL, falling back to the public endpoint
func (c *Config) GetBaseURL() string {
	if c.GeminiBaseURL == "" {
		return DefaultGeminiBaseURL
	}
	return strings.TrimRight(c.GeminiBaseURL, "/")
}

// GetToken returns the Gemini API key. An empty key is allowed: the request
// is still sent and the service rejects it.
func (c *Config) GetToken() string {
	return c.GeminiToken
}

// HasToken reports whether an API key is configured.
func (c *Config) HasToken() bool {
	return strings.TrimSpace(c.GeminiToken) != ""
}

// MaskToken returns a masked version of the token for display
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
