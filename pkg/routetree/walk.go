package routetree

import "strings"

// JoinPattern joins a parent pattern with a node's relative path. Index nodes
// resolve to the parent pattern itself.
func JoinPattern(parent string, n *Node) string {
	if n.Index || n.Path == "" {
		if parent == "" {
			return "/"
		}
		return parent
	}
	if strings.HasPrefix(n.Path, "/") {
		return n.Path
	}
	if parent == "" {
		return "/" + n.Path
	}
	return strings.TrimSuffix(parent, "/") + "/" + n.Path
}

// WalkFunc visits one node during a Walk. Returning false stops descent into
// the node's children.
type WalkFunc func(n *Node, depth int, pattern string) bool

// Walk visits every node of the table depth-first, in declaration order.
func Walk(nodes []*Node, fn WalkFunc) {
	walk(nodes, "", 0, fn)
}

func walk(nodes []*Node, parent string, depth int, fn WalkFunc) {
	for _, n := range nodes {
		pattern := JoinPattern(parent, n)
		if !fn(n, depth, pattern) {
			continue
		}
		walk(n.Children, pattern, depth+1, fn)
	}
}

// RouteInfo is the flattened description of one node, for tooling.
type RouteInfo struct {
	Pattern   string
	Index     bool
	HasLoader bool
	Resolved  bool
}

// Flatten lists every node of the table with its joined pattern.
func Flatten(nodes []*Node) []RouteInfo {
	var infos []RouteInfo
	Walk(nodes, func(n *Node, _ int, pattern string) bool {
		infos = append(infos, RouteInfo{
			Pattern:   pattern,
			Index:     n.Index,
			HasLoader: n.Loader != nil,
			Resolved:  n.Lazy != nil && n.Lazy.Resolved(),
		})
		return true
	})
	return infos
}
