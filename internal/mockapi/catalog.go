package mockapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type catalogFixture struct {
	asin  string
	name  string
	brand string
}

var catalogFixtures = []catalogFixture{
	{asin: "B07XYZ1234", name: "Dell PowerEdge R740 2U Rack Server", brand: "Dell"},
	{asin: "B08ABC5678", name: "HPE ProLiant DL380 Gen10 2U Server", brand: "HPE"},
	{asin: "B09DEF9012", name: "Supermicro SYS-1029U 1U Rack Server", brand: "Supermicro"},
	{asin: "B0AGHI3456", name: "Samsung 32GB DDR4-2666 ECC RDIMM", brand: "Samsung"},
	{asin: "B0BJKL7890", name: "Intel Xeon Gold 6248 Processor", brand: "Intel"},
}

type itemSummary struct {
	MarketplaceID string `json:"marketplaceId"`
	ItemName      string `json:"itemName"`
	BrandName     string `json:"brandName"`
}

type catalogItem struct {
	ASIN      string        `json:"asin"`
	Summaries []itemSummary `json:"summaries,omitempty"`
}

type pagination struct {
	NextToken string `json:"nextToken,omitempty"`
}

type catalogSearchResponse struct {
	NumberOfResults int           `json:"numberOfResults"`
	Pagination      pagination    `json:"pagination"`
	Items           []catalogItem `json:"items"`
}

func (f catalogFixture) item(c echo.Context) catalogItem {
	item := catalogItem{ASIN: f.asin}
	if slices.Contains(splitList(c.QueryParam("includedData")), "summaries") ||
		c.QueryParam("includedData") == "" {
		item.Summaries = []itemSummary{{
			MarketplaceID: c.QueryParam("marketplaceIds"),
			ItemName:      f.name,
			BrandName:     f.brand,
		}}
	}
	return item
}

// SearchCatalogItems matches fixtures by keywords or ASIN identifiers.
func (*Server) SearchCatalogItems(c echo.Context) error {
	keywords := splitList(c.QueryParam("keywords"))
	identifiers := splitList(c.QueryParam("identifiers"))

	switch {
	case len(keywords) == 0 && len(identifiers) == 0:
		return invalidInput(c, "Either keywords or identifiers must be provided.")
	case len(keywords) > 0 && len(identifiers) > 0:
		return invalidInput(c, "Cannot specify both keywords and identifiers.")
	}

	size := 10
	if v := c.QueryParam("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 20 {
			return invalidInput(c, "pageSize must be between 1 and 20.")
		}
		size = n
	}

	var matched []catalogFixture
	for _, f := range catalogFixtures {
		if matchesCatalog(f, keywords, identifiers) {
			matched = append(matched, f)
		}
	}

	start, end, next, ok := page(len(matched), c.QueryParam("pageToken"), size)
	if !ok {
		return invalidInput(c, "Invalid pageToken.")
	}

	resp := catalogSearchResponse{
		NumberOfResults: len(matched),
		Pagination:      pagination{NextToken: next},
		Items:           []catalogItem{},
	}
	for _, f := range matched[start:end] {
		resp.Items = append(resp.Items, f.item(c))
	}
	return c.JSON(http.StatusOK, resp)
}

func matchesCatalog(f catalogFixture, keywords, identifiers []string) bool {
	if len(identifiers) > 0 {
		return slices.Contains(identifiers, f.asin)
	}
	name := strings.ToLower(f.name + " " + f.brand)
	for _, k := range keywords {
		if strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// GetCatalogItem returns one fixture by ASIN.
func (*Server) GetCatalogItem(c echo.Context) error {
	asin := c.Param("asin")
	for _, f := range catalogFixtures {
		if f.asin == asin {
			return c.JSON(http.StatusOK, f.item(c))
		}
	}
	return notFound(c, "Requested item '"+asin+"' not found in marketplace.")
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
