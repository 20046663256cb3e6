// Package endpoints provides thin wrappers over spapi.Session for individual
// Selling Partner API operations. Each wrapper validates its arguments,
// assembles a path and parameter list, waits on the operation's rate limit,
// and returns the raw response. Decoding is left to the caller (see
// spapi.DecodeJSON).
package endpoints

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

// Operation names, used as rate limiter keys.
const (
	OpSearchCatalogItems           = "searchCatalogItems"
	OpGetCatalogItem               = "getCatalogItem"
	OpGetListingsItem              = "getListingsItem"
	OpPatchListingsItem            = "patchListingsItem"
	OpSearchListingsItems          = "searchListingsItems"
	OpGetMarketplaceParticipations = "getMarketplaceParticipations"
	OpGetAccount                   = "getAccount"
	OpGetQueries                   = "getQueries"
	OpCreateQuery                  = "createQuery"
	OpGetQuery                     = "getQuery"
	OpCancelQuery                  = "cancelQuery"
	OpGetDocument                  = "getDocument"
)

// DefaultLimits returns the documented default usage plan of each operation.
func DefaultLimits() map[string]spapi.Limit {
	return map[string]spapi.Limit{
		OpSearchCatalogItems:           {PerSecond: 2, Burst: 2},
		OpGetCatalogItem:               {PerSecond: 2, Burst: 2},
		OpGetListingsItem:              {PerSecond: 5, Burst: 10},
		OpPatchListingsItem:            {PerSecond: 5, Burst: 10},
		OpSearchListingsItems:          {PerSecond: 5, Burst: 5},
		OpGetMarketplaceParticipations: {PerSecond: 0.016, Burst: 15},
		OpGetAccount:                   {PerSecond: 0.016, Burst: 15},
		OpGetQueries:                   {PerSecond: 0.0222, Burst: 10},
		OpCreateQuery:                  {PerSecond: 0.0167, Burst: 15},
		OpGetQuery:                     {PerSecond: 2, Burst: 15},
		OpCancelQuery:                  {PerSecond: 0.0222, Burst: 10},
		OpGetDocument:                  {PerSecond: 0.0167, Burst: 15},
	}
}

// Requester is the part of spapi.Session the wrappers use.
type Requester interface {
	Request(ctx context.Context, path, method string, params []spapi.Param) (*http.Response, error)
	RequestWithBody(ctx context.Context, path, method string, params []spapi.Param, body []byte) (*http.Response, error)
}

// Client groups the operation wrappers.
type Client struct {
	session Requester
	limiter *spapi.RateLimiter
}

// Option configures the Client.
type Option func(*Client)

// WithRateLimiter throttles every call through r. Use
// spapi.NewRateLimiter(DefaultLimits()) for the documented plans.
func WithRateLimiter(r *spapi.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = r
	}
}

// New creates a Client calling through session.
func New(session Requester, opts ...Option) *Client {
	c := &Client{session: session}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) call(
	ctx context.Context,
	operation, method, path string,
	params []spapi.Param,
	body []byte,
) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, operation); err != nil {
			return nil, err
		}
	}

	var (
		resp *http.Response
		err  error
	)
	if body != nil {
		resp, err = c.session.RequestWithBody(ctx, path, method, params, body)
	} else {
		resp, err = c.session.Request(ctx, path, method, params)
	}
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		c.limiter.Observe(operation, resp)
	}
	return resp, nil
}

// params accumulates optional query parameters in insertion order.
type params []spapi.Param

func (p *params) add(key, value string) {
	if value == "" {
		return
	}
	*p = append(*p, spapi.Param{Key: key, Value: value})
}

func (p *params) list(key string, values []string) {
	if len(values) == 0 {
		return
	}
	*p = append(*p, spapi.Param{Key: key, Value: strings.Join(values, ",")})
}

func segment(name, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", spapi.Validationf("%s is required", name)
	}
	return url.PathEscape(v), nil
}
