//go:build integration

package endpoints_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/spapi/pkg/endpoints"
	"github.com/donaldgifford/spapi/pkg/marketplace"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

// TestSellers_Integration requires live Selling Partner API credentials.
// Run with: go test -tags=integration -run TestSellers_Integration ./pkg/endpoints/...
//
// Required environment variables:
//   - SPAPI_REFRESH_TOKEN: LWA refresh token (Atzr|...)
//   - SPAPI_CLIENT_ID: LWA client id
//   - SPAPI_CLIENT_SECRET: LWA client secret
//
// SPAPI_MARKETPLACE defaults to US. SPAPI_SANDBOX=true routes to the
// sandbox host.
func TestSellers_Integration(t *testing.T) {
	creds := spapi.Credentials{
		RefreshToken: os.Getenv("SPAPI_REFRESH_TOKEN"),
		ClientID:     os.Getenv("SPAPI_CLIENT_ID"),
		ClientSecret: os.Getenv("SPAPI_CLIENT_SECRET"),
		Marketplace:  marketplace.UnitedStates,
	}
	if creds.RefreshToken == "" || creds.ClientID == "" || creds.ClientSecret == "" {
		t.Skip("SPAPI_REFRESH_TOKEN, SPAPI_CLIENT_ID and SPAPI_CLIENT_SECRET must be set for integration tests")
	}
	if v := os.Getenv("SPAPI_MARKETPLACE"); v != "" {
		m, err := marketplace.Parse(v)
		require.NoError(t, err)
		creds.Marketplace = m
	}

	var opts []spapi.Option
	if os.Getenv("SPAPI_SANDBOX") == "true" {
		opts = append(opts, spapi.WithSandbox())
	}

	s, err := spapi.New(creds, opts...)
	require.NoError(t, err)

	api := endpoints.New(s, endpoints.WithRateLimiter(spapi.NewRateLimiter(endpoints.DefaultLimits())))

	resp, err := api.GetMarketplaceParticipations(context.Background())
	require.NoError(t, err)

	var out struct {
		Payload []struct {
			Marketplace struct {
				ID string `json:"id"`
			} `json:"marketplace"`
		} `json:"payload"`
	}
	require.NoError(t, spapi.DecodeJSON(resp, &out))
	assert.NotEmpty(t, out.Payload)

	tok := s.Tokens().Current()
	require.NotNil(t, tok)
	assert.Positive(t, tok.ExpiresIn)
}
