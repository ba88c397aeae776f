package routetree

import (
	"context"
	"io"
	"reflect"
)

// Params holds path parameters extracted during matching.
type Params map[string]string

// Get returns the value for name, or "" when absent.
func (p Params) Get(name string) string {
	return p[name]
}

// View carries everything a component needs at render time.
type View struct {
	// Params are the path parameters of the matched route.
	Params Params

	// Data is the result of the route's loader, nil when the route has no
	// loader or the loader was not run.
	Data any

	// Child is the rendered output of the nested child route, when the
	// component acts as a layout. Empty for leaf components.
	Child []byte
}

// Component is the renderable unit a route resolves to.
type Component interface {
	Render(ctx context.Context, w io.Writer, view *View) error
}

// ComponentFunc is a function adapter for Component.
type ComponentFunc func(ctx context.Context, w io.Writer, view *View) error

// Render implements Component.
func (f ComponentFunc) Render(ctx context.Context, w io.Writer, view *View) error {
	return f(ctx, w, view)
}

// Loader fetches data before a route's component renders.
// Sibling routes frequently share a single loader by reference.
type Loader func(ctx context.Context, params Params) (any, error)

// Node is one entry in a declarative route table.
//
// A node is either a path node (Path set) or an index node (Index set),
// never both. Nodes are immutable after construction.
type Node struct {
	// Path is the segment pattern relative to the parent node, e.g.
	// "raw/" or "/recommendations/:userName/". Empty for index nodes.
	Path string

	// Index marks the child activated when the parent path matches and no
	// more specific child path does.
	Index bool

	// Lazy defers component resolution until the node is first activated.
	Lazy *Handle

	// Loader is the optional pre-render data loader for this node.
	Loader Loader

	// Children are the nested routes, in declaration order.
	Children []*Node
}

// Option configures a node at construction.
type Option func(*Node)

// WithLoader attaches a pre-render loader to the node.
func WithLoader(loader Loader) Option {
	return func(n *Node) {
		n.Loader = loader
	}
}

// WithChildren appends nested routes to the node.
func WithChildren(children ...*Node) Option {
	return func(n *Node) {
		n.Children = append(n.Children, children...)
	}
}

// Route builds a path node with a lazily resolved component.
func Route(path string, factory Factory, opts ...Option) *Node {
	n := &Node{
		Path: path,
		Lazy: NewHandle(factory),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Index builds an index node with a lazily resolved component.
func Index(factory Factory, opts ...Option) *Node {
	n := &Node{
		Index: true,
		Lazy:  NewHandle(factory),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Equal reports whether two route tables are structurally equal: same
// shape, paths, index flags, loader references, and lazy presence, in the
// same order. Lazy handles are compared by presence only, so two builds of
// the same table compare equal even though each build owns fresh handles.
func Equal(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalNode(a, b *Node) bool {
	if a.Path != b.Path || a.Index != b.Index {
		return false
	}
	if (a.Lazy == nil) != (b.Lazy == nil) {
		return false
	}
	if !SameLoader(a.Loader, b.Loader) {
		return false
	}
	return Equal(a.Children, b.Children)
}

// SameLoader reports whether a and b are the same loader reference.
func SameLoader(a, b Loader) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
