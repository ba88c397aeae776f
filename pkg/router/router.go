package router

import (
	"fmt"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// Router matches canonical paths against mounted route tables and activates
// the matched node.
type Router struct {
	root       *treeNode
	patterns   map[*routetree.Node]string
	middleware []Middleware
	notFound   routetree.Component
	errorPage  ErrorComponent
}

// ErrorComponent renders an error page for a failed activation.
type ErrorComponent func(ctx Ctx, err error) routetree.Component

// New creates an empty router.
func New() *Router {
	return &Router{
		root:     newTreeNode(""),
		patterns: make(map[*routetree.Node]string),
	}
}

// Mount validates a route table and adds it to the match tree. Tables from
// separate features are mounted independently; their top-level paths must not
// collide.
func (r *Router) Mount(nodes ...*routetree.Node) error {
	if err := routetree.Validate(nodes); err != nil {
		return fmt.Errorf("mounting route table: %w", err)
	}
	for _, n := range nodes {
		r.insert(r.root, "", n)
	}
	return nil
}

func (r *Router) insert(pos *treeNode, parentPattern string, n *routetree.Node) {
	pattern := routetree.JoinPattern(parentPattern, n)
	r.patterns[n] = pattern

	if n.Index {
		pos.index = n
		return
	}

	target := pos.descend(splitPath(n.Path))
	if len(n.Children) > 0 {
		if n.Lazy != nil {
			target.layout = n
		}
		for _, child := range n.Children {
			r.insert(target, pattern, child)
		}
		return
	}
	target.page = n
}

// Use appends middleware run around every activation, in registration order.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Middleware returns the registered middleware chain.
func (r *Router) Middleware() []Middleware {
	return r.middleware
}

// SetNotFound sets the component rendered when no route matches.
func (r *Router) SetNotFound(c routetree.Component) {
	r.notFound = c
}

// NotFound returns the not-found component, nil when unset.
func (r *Router) NotFound() routetree.Component {
	return r.notFound
}

// SetErrorPage sets the component rendered when an activation fails.
func (r *Router) SetErrorPage(c ErrorComponent) {
	r.errorPage = c
}

// ErrorPage returns the error-page component, nil when unset.
func (r *Router) ErrorPage() ErrorComponent {
	return r.errorPage
}

// Match finds the node for a canonical path. The path must already be
// canonicalized (see pkg/routepath); trailing slashes are tolerated.
func (r *Router) Match(path string) (*MatchResult, bool) {
	params := make(routetree.Params)
	leaf, layouts, ok := r.root.match(splitPath(path), params, nil)
	if !ok {
		return nil, false
	}
	return &MatchResult{
		Leaf:    leaf,
		Layouts: layouts,
		Params:  params,
		Pattern: r.patterns[leaf],
	}, true
}

// Pattern returns the joined pattern of a mounted node, "" when unknown.
func (r *Router) Pattern(n *routetree.Node) string {
	return r.patterns[n]
}

// Routes lists every mounted node for tooling. Order follows the mounted
// tables' declaration order.
func (r *Router) Routes() []routetree.RouteInfo {
	var infos []routetree.RouteInfo
	seen := make(map[*routetree.Node]bool)
	collect(r.root, seen, &infos, r.patterns)
	return infos
}

func collect(n *treeNode, seen map[*routetree.Node]bool, infos *[]routetree.RouteInfo, patterns map[*routetree.Node]string) {
	appendInfo := func(node *routetree.Node) {
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		*infos = append(*infos, routetree.RouteInfo{
			Pattern:   patterns[node],
			Index:     node.Index,
			HasLoader: node.Loader != nil,
			Resolved:  node.Lazy != nil && node.Lazy.Resolved(),
		})
	}

	appendInfo(n.layout)
	appendInfo(n.page)
	appendInfo(n.index)

	for _, child := range n.children {
		collect(child, seen, infos, patterns)
	}
	if n.paramChild != nil {
		collect(n.paramChild, seen, infos, patterns)
	}
}
