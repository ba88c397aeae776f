package routetree

import (
	"context"
	"sync"
)

// Factory produces a component on demand. It runs when the route is first
// activated, never while the table is built.
type Factory func(ctx context.Context) (Component, error)

// Handle is a deferred component reference.
//
// Resolve runs the factory at most once on success and caches the component
// for the lifetime of the handle. A failed resolution is not cached; the next
// activation retries. Concurrent activations share a single in-flight
// resolution.
type Handle struct {
	factory Factory

	mu        sync.Mutex
	component Component
	inflight  *resolveCall
}

type resolveCall struct {
	done      chan struct{}
	component Component
	err       error
}

// NewHandle wraps a factory in a deferred handle.
func NewHandle(factory Factory) *Handle {
	return &Handle{factory: factory}
}

// Resolve returns the component, running the factory if no cached result
// exists. The factory runs detached from the caller's cancellation so that an
// aborted navigation cannot poison the cache for later ones; the caller still
// observes ctx.Err() if it gives up waiting.
func (h *Handle) Resolve(ctx context.Context) (Component, error) {
	h.mu.Lock()
	if h.component != nil {
		h.mu.Unlock()
		return h.component, nil
	}
	call := h.inflight
	if call == nil {
		call = &resolveCall{done: make(chan struct{})}
		h.inflight = call
		go h.run(context.WithoutCancel(ctx), call)
	}
	h.mu.Unlock()

	select {
	case <-call.done:
		return call.component, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) run(ctx context.Context, call *resolveCall) {
	call.component, call.err = h.factory(ctx)

	h.mu.Lock()
	if call.err == nil {
		h.component = call.component
	}
	h.inflight = nil
	h.mu.Unlock()

	close(call.done)
}

// Resolved reports whether a component is already cached.
func (h *Handle) Resolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.component != nil
}
