package recommend

import (
	"context"

	"github.com/ostinato-fm/ostinato/pkg/router"
	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

type routeParams struct {
	UserName string `param:"userName"`
}

// Loader returns the pre-render loader shared by the recommendations pages.
// It fetches the raw recommendation payload for the user named in the route
// parameters.
func (c *Client) Loader() routetree.Loader {
	return func(ctx context.Context, params routetree.Params) (any, error) {
		var p routeParams
		if err := router.ParseParams(params, &p); err != nil {
			return nil, err
		}
		return c.Recommendations(ctx, p.UserName)
	}
}
