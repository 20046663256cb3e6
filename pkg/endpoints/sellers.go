package endpoints

import (
	"context"
	"net/http"
)

const sellersPath = "/sellers/v1"

// GetMarketplaceParticipations lists the marketplaces the seller can sell in.
func (c *Client) GetMarketplaceParticipations(ctx context.Context) (*http.Response, error) {
	return c.call(ctx, OpGetMarketplaceParticipations, http.MethodGet,
		sellersPath+"/marketplaceParticipations", nil, nil)
}

// GetAccount returns the seller's account information.
func (c *Client) GetAccount(ctx context.Context) (*http.Response, error) {
	return c.call(ctx, OpGetAccount, http.MethodGet, sellersPath+"/account", nil, nil)
}
