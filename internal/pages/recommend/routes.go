// Package recommend serves the per-user recommendation pages: a listing of
// the user's recommended tracks and a raw view of the underlying payload.
package recommend

import "github.com/ostinato-fm/ostinato/pkg/routetree"

// Pages builds the recommendation route table. Both child pages share one
// loader so the payload is fetched the same way whichever view is requested.
type Pages struct {
	loader routetree.Loader
}

// New builds the recommendation pages on top of client.
func New(client *Client) *Pages {
	return &Pages{loader: client.Loader()}
}

// Routes returns the recommendation route table: one node rooted at the
// user's recommendations path, with an index child for the track listing
// and a raw/ child for the payload view. Components stay unresolved until
// a request first activates them.
func (p *Pages) Routes() []*routetree.Node {
	return []*routetree.Node{
		routetree.Route("/recommendations/:userName/", layoutPage,
			routetree.WithChildren(
				routetree.Index(indexPage, routetree.WithLoader(p.loader)),
				routetree.Route("raw/", rawPage, routetree.WithLoader(p.loader)),
			),
		),
	}
}
