// Package routetree defines the declarative route table used by Ostinato
// pages.
//
// A route table is an ordered tree of nodes. Each node maps a path segment
// pattern to a lazily resolved component, an optional pre-render loader, and
// child nodes. The tree is data only: it is built once, held for the lifetime
// of the application, and interpreted by pkg/router.
//
// # Building a table
//
//	func Routes() []*routetree.Node {
//	    return []*routetree.Node{
//	        routetree.Route("/artists/:name/", lazyLayout,
//	            routetree.WithChildren(
//	                routetree.Index(lazyOverview, routetree.WithLoader(artistLoader)),
//	                routetree.Route("albums/", lazyAlbums, routetree.WithLoader(artistLoader)),
//	            ),
//	        ),
//	    }
//	}
//
// Components are never resolved while the table is built. Resolution happens
// on first activation of a node, through its Handle, and the resolved
// component is cached for subsequent activations.
//
// # Index routes
//
// An index child is the route activated when its parent's path matches and no
// more specific child does. A parent may have at most one index child; having
// none is valid and simply means an exhausted path does not match.
package routetree
