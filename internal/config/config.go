// Package config provides configuration types for the OJTrack CLI.
//
// Configuration is intentionally small: the client needs to know where the
// OJTrack API lives, where to keep its credential file, and how chatty to be.
// Everything else (roles, permissions, data) lives server-side.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// ClientConfig is the top-level configuration for the OJTrack CLI.
type ClientConfig struct {
	// API configures the remote OJTrack REST API.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Credentials configures where the session token and user record are
	// persisted between invocations.
	Credentials CredentialsConfig `yaml:"credentials" mapstructure:"credentials"`

	// LogLevel controls slog verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// NoColor disables colored terminal output.
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// APIConfig configures the connection to the OJTrack API server.
type APIConfig struct {
	// URL is the base URL of the API, e.g. "https://ojt.example.edu".
	// The client appends "/api" itself; do not include it here.
	URL string `yaml:"url" mapstructure:"url" validate:"required,api_url"`

	// Timeout is the per-request timeout (e.g. "8s").
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// CacheTTL is how long GET list responses may be served from the
	// in-memory cache. "0s" disables caching.
	CacheTTL string `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"omitempty,duration"`
}

// CredentialsConfig configures the persisted credential store.
type CredentialsConfig struct {
	// Path is the credential file location.
	// Default: ~/.ojtrack/credentials.json
	Path string `yaml:"path" mapstructure:"path"`
}

// SetDefaults applies default values for optional fields.
func (c *ClientConfig) SetDefaults() {
	if c.API.Timeout == "" {
		c.API.Timeout = "8s"
	}
	if c.API.CacheTTL == "" {
		c.API.CacheTTL = "5s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Credentials.Path == "" {
		c.Credentials.Path = DefaultCredentialsPath()
	}
}

// DefaultCredentialsPath returns ~/.ojtrack/credentials.json, falling back to
// a relative path when the home directory cannot be resolved.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".ojtrack", "credentials.json")
}

// RequestTimeout parses API.Timeout. Call after SetDefaults and Validate.
func (c *ClientConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 8 * time.Second
	}
	return d
}

// ResponseCacheTTL parses API.CacheTTL. Call after SetDefaults and Validate.
func (c *ClientConfig) ResponseCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.API.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}
