package server

import (
	"net/http"
	"time"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	Address string

	// ReadHeaderTimeout is the maximum time to read request headers.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum time to read the full request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to write the response.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration

	// CheckOrigin validates the Origin header of activity-feed WebSocket
	// upgrades. Defaults to same-host only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ShutdownTimeout:   30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfig()
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &out
}
