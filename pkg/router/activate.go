package router

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// LoaderError reports a pre-render loader failure during activation.
type LoaderError struct {
	Route string
	Err   error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Route, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// ResolutionError reports a lazy component resolution failure.
type ResolutionError struct {
	Route string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Route, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Activation is the resolved form of a matched route: every component in the
// layout chain resolved, every loader in the chain run.
type Activation struct {
	// Params are the path parameters of the match.
	Params routetree.Params

	// Pattern is the matched pattern, for logging and metrics.
	Pattern string

	// entries are the resolved chain, outermost layout first, leaf last.
	entries []activationEntry
}

type activationEntry struct {
	component routetree.Component
	data      any
}

// Data returns the leaf route's loader result, nil when it has none.
func (a *Activation) Data() any {
	if len(a.entries) == 0 {
		return nil
	}
	return a.entries[len(a.entries)-1].data
}

// Activate runs the loaders of the matched chain and resolves its lazy
// components. Loader and resolution failures are returned to the caller;
// nothing is cached for a failed node, so the next navigation retries.
func (r *Router) Activate(ctx context.Context, m *MatchResult) (*Activation, error) {
	chain := append(append([]*routetree.Node(nil), m.Layouts...), m.Leaf)

	act := &Activation{
		Params:  m.Params,
		Pattern: m.Pattern,
		entries: make([]activationEntry, 0, len(chain)),
	}

	for _, node := range chain {
		var entry activationEntry

		if node.Loader != nil {
			data, err := node.Loader(ctx, m.Params)
			if err != nil {
				return nil, &LoaderError{Route: r.patterns[node], Err: err}
			}
			entry.data = data
		}

		if node.Lazy != nil {
			component, err := node.Lazy.Resolve(ctx)
			if err != nil {
				return nil, &ResolutionError{Route: r.patterns[node], Err: err}
			}
			entry.component = component
		}

		act.entries = append(act.entries, entry)
	}

	return act, nil
}

// Render composes the activation's components: the leaf renders first, then
// each wrapping layout receives the nested output as View.Child.
func (a *Activation) Render(ctx context.Context, w io.Writer) error {
	var child []byte
	for i := len(a.entries) - 1; i >= 0; i-- {
		entry := a.entries[i]
		if entry.component == nil {
			continue
		}
		var buf bytes.Buffer
		view := &routetree.View{
			Params: a.Params,
			Data:   entry.data,
			Child:  child,
		}
		if err := entry.component.Render(ctx, &buf, view); err != nil {
			return err
		}
		child = buf.Bytes()
	}
	_, err := w.Write(child)
	return err
}
