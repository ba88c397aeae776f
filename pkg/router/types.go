package router

import (
	"context"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// Ctx is the request-scoped view the router and its middleware operate on.
// pkg/server provides the HTTP-backed implementation.
type Ctx interface {
	// Method returns the HTTP method of the request.
	Method() string

	// Path returns the canonical request path.
	Path() string

	// Pattern returns the matched route pattern, e.g.
	// "/recommendations/:userName/raw/". Empty before a match.
	Pattern() string

	// Params returns the extracted path parameters.
	Params() routetree.Params

	// StdContext returns the underlying context.Context.
	StdContext() context.Context

	// SetValue stores a request-scoped value.
	SetValue(key, val any)

	// Value retrieves a request-scoped value.
	Value(key any) any
}

// Middleware processes an activation before it reaches the route's
// components. Return an error to stop the chain and report an error; return
// nil without calling next to stop the chain silently.
type Middleware interface {
	Handle(ctx Ctx, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx Ctx, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx Ctx, next func() error) error {
	return f(ctx, next)
}

// MatchResult describes a successful match against the route table.
type MatchResult struct {
	// Leaf is the matched node: a page node or an index node.
	Leaf *routetree.Node

	// Layouts are the ancestor nodes with components wrapping the leaf,
	// outermost first.
	Layouts []*routetree.Node

	// Params are the extracted path parameters.
	Params routetree.Params

	// Pattern is the joined pattern of the leaf node.
	Pattern string
}
