package router

import (
	"strings"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

// treeNode is a node in the segment match tree built from declarative tables.
type treeNode struct {
	// segment is the static path segment this node matches.
	segment string

	// isParam indicates a parameter segment (:name).
	isParam   bool
	paramName string

	// children are static segment children.
	children []*treeNode

	// paramChild is the dynamic parameter child, at most one per node.
	paramChild *treeNode

	// page is the declarative node matched when segments exhaust here.
	page *routetree.Node

	// index is the index child matched on exhaustion when no page is set.
	index *routetree.Node

	// layout is the declarative node whose component wraps descendants.
	layout *routetree.Node
}

func newTreeNode(segment string) *treeNode {
	return &treeNode{segment: segment}
}

func (n *treeNode) findChild(segment string) *treeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// descend walks or creates the tree positions for the given segments.
func (n *treeNode) descend(segments []string) *treeNode {
	current := n
	for _, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			if current.paramChild == nil {
				child := newTreeNode("")
				child.isParam = true
				child.paramName = seg[1:]
				current.paramChild = child
			}
			current = current.paramChild
		} else {
			child := current.findChild(seg)
			if child == nil {
				child = newTreeNode(seg)
				current.children = append(current.children, child)
			}
			current = child
		}
	}
	return current
}

// match walks the tree for the given segments, extracting parameters and
// collecting wrapping layouts along the way.
func (n *treeNode) match(segments []string, params routetree.Params, layouts []*routetree.Node) (*routetree.Node, []*routetree.Node, bool) {
	if n.layout != nil {
		layouts = append(layouts, n.layout)
	}

	if len(segments) == 0 {
		if n.page != nil {
			return n.page, layouts, true
		}
		if n.index != nil {
			return n.index, layouts, true
		}
		return nil, nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if leaf, chain, ok := child.match(remaining, params, layouts); ok {
			return leaf, chain, true
		}
	}

	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if leaf, chain, ok := n.paramChild.match(remaining, params, layouts); ok {
			return leaf, chain, true
		}
		// Backtrack on failure.
		delete(params, n.paramChild.paramName)
	}

	return nil, nil, false
}

// splitPath splits a path or pattern into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
