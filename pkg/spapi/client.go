// Package spapi implements the authenticated session layer of an Amazon
// Selling Partner API client: the refresh-token exchange, access token
// lifecycle, and the request dispatcher every endpoint wrapper calls through.
package spapi

import (
	"context"
	"net/http"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.4.0"

// UserAgent is sent on every resource request.
const UserAgent = "spapi-go/" + Version + " (Language=Go)"

const tracerName = "github.com/donaldgifford/spapi/pkg/spapi"

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenStore persists access tokens so that several processes sharing one
// refresh token can share the access token too. Load returns (nil, nil)
// when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*AccessToken, error)
	Save(ctx context.Context, token *AccessToken) error
}
