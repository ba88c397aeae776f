// Package config provides configuration parsing for Ostinato deployments.
//
// The configuration is stored in ostinato.json at the project root. Missing
// files fall back to defaults so `ostinato serve` works out of the box.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ostinato-fm/ostinato/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ostinato.json"

	// DefaultAddress is the default server listen address.
	DefaultAddress = ":8080"

	// DefaultAPIBaseURL is the default backend API endpoint.
	DefaultAPIBaseURL = "https://api.ostinato.fm"

	// DefaultAPITimeout is the default timeout for backend API calls.
	DefaultAPITimeout = 10 * time.Second
)

// Config represents the complete ostinato.json configuration.
type Config struct {
	// Name is the deployment name.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// API contains backend API client settings.
	API APIConfig `json:"api,omitempty"`

	// Publish contains route manifest publishing settings.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address (e.g., ":8080").
	Address string `json:"address,omitempty"`

	// ShutdownTimeout is the graceful shutdown limit (e.g., "30s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// APIConfig contains backend API client settings.
type APIConfig struct {
	// BaseURL is the backend API endpoint.
	BaseURL string `json:"baseUrl,omitempty"`

	// Timeout is the per-request limit (e.g., "10s").
	Timeout string `json:"timeout,omitempty"`
}

// PublishConfig contains route manifest publishing settings.
type PublishConfig struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix (e.g., "manifests/").
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty"`

	// BaseURL is the site origin written into the manifest
	// (e.g., "https://ostinato.fm").
	BaseURL string `json:"baseUrl,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: DefaultAddress},
		API:    APIConfig{BaseURL: DefaultAPIBaseURL},
	}
}

// Load reads ostinato.json from dir. A missing file returns defaults;
// a malformed one returns a structured config error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, errors.New(errors.CategoryConfig, "could not read "+ConfigFileName).WithCause(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CategoryConfig, ConfigFileName+" is not valid JSON").
			WithCause(err).
			WithSuggestion("check for trailing commas or unquoted keys")
	}
	cfg.configPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to its source path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New(errors.CategoryConfig, "config has no source path")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, append(data, '\n'), 0o644)
}

// Validate checks duration fields and required publish settings.
func (c *Config) Validate() error {
	if c.Server.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
			return errors.New(errors.CategoryConfig, "server.shutdownTimeout is not a duration").
				WithCause(err).
				WithSuggestion(`use a Go duration string like "30s"`)
		}
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return errors.New(errors.CategoryConfig, "api.timeout is not a duration").
				WithCause(err).
				WithSuggestion(`use a Go duration string like "10s"`)
		}
	}
	return nil
}

// ShutdownTimeout returns the parsed shutdown timeout, 0 when unset.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

// APITimeout returns the parsed API timeout, DefaultAPITimeout when unset.
func (c *Config) APITimeout() time.Duration {
	if c.API.Timeout == "" {
		return DefaultAPITimeout
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return DefaultAPITimeout
	}
	return d
}
