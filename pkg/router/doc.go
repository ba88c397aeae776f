// Package router interprets declarative route tables from pkg/routetree.
//
// The router is the external collaborator the tables are written against: it
// owns path-segment matching, parameter extraction, index fall-through, and
// the activation of a matched node (running its loaders and resolving its
// lazy components, which are cached after the first successful resolution).
//
// # Usage
//
//	r := router.New()
//	if err := r.Mount(recommend.Routes()...); err != nil {
//	    return err
//	}
//
//	match, ok := r.Match("/recommendations/rob")
//	if ok {
//	    act, err := r.Activate(ctx, match)
//	    ...
//	    err = act.Render(ctx, w)
//	}
//
// Matching walks a segment tree: static children win over parameter children,
// and a parent whose segments are exhausted falls through to its index child
// when it has one. A parent without an index child does not match on its own.
package router
