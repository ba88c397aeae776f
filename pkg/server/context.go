package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// Ctx is the HTTP-backed implementation of router.Ctx. One Ctx lives for one
// request and is used from a single goroutine.
type Ctx struct {
	request *http.Request
	path    string
	pattern string
	params  routetree.Params
	values  map[any]any
	logger  *slog.Logger
}

func newCtx(r *http.Request, path, pattern string, params routetree.Params, logger *slog.Logger) *Ctx {
	return &Ctx{
		request: r,
		path:    path,
		pattern: pattern,
		params:  params,
		logger:  logger,
	}
}

// Method returns the HTTP method of the request.
func (c *Ctx) Method() string {
	return c.request.Method
}

// Path returns the canonical request path.
func (c *Ctx) Path() string {
	return c.path
}

// Pattern returns the matched route pattern.
func (c *Ctx) Pattern() string {
	return c.pattern
}

// Params returns the extracted path parameters.
func (c *Ctx) Params() routetree.Params {
	return c.params
}

// StdContext returns the request's context.
func (c *Ctx) StdContext() context.Context {
	return c.request.Context()
}

// SetValue stores a request-scoped value.
func (c *Ctx) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Value retrieves a request-scoped value, falling back to the request
// context.
func (c *Ctx) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.request.Context().Value(key)
}

// Request returns the underlying *http.Request.
func (c *Ctx) Request() *http.Request {
	return c.request
}

// Logger returns the request-scoped logger.
func (c *Ctx) Logger() *slog.Logger {
	return c.logger
}
