package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/spapi/pkg/marketplace"
)

type mockMarketplace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

type participation struct {
	IsParticipating      bool `json:"isParticipating"`
	HasSuspendedListings bool `json:"hasSuspendedListings"`
}

type marketplaceParticipation struct {
	Marketplace   mockMarketplace `json:"marketplace"`
	Participation participation   `json:"participation"`
}

func participations(c echo.Context) ([]marketplaceParticipation, bool) {
	m, ok := marketplace.ByID(c.QueryParam("marketplaceIds"))
	if !ok {
		return nil, false
	}
	return []marketplaceParticipation{{
		Marketplace: mockMarketplace{
			ID:          m.ID(),
			Name:        m.String(),
			CountryCode: m.CountryCode(),
		},
		Participation: participation{IsParticipating: true},
	}}, true
}

// MarketplaceParticipations reports participation in the requested
// marketplace.
func (*Server) MarketplaceParticipations(c echo.Context) error {
	p, ok := participations(c)
	if !ok {
		return invalidInput(c, "Invalid marketplaceIds.")
	}
	return c.JSON(http.StatusOK, map[string]any{"payload": p})
}

// Account returns a fixed professional seller account.
func (*Server) Account(c echo.Context) error {
	p, ok := participations(c)
	if !ok {
		return invalidInput(c, "Invalid marketplaceIds.")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"payload": map[string]any{
			"marketplaceParticipationList": p,
			"businessType":                 "CORPORATION",
			"sellingPlan":                  "PROFESSIONAL",
		},
	})
}
