package endpoints

import (
	"context"
	"net/http"
	"strconv"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

const catalogItemsPath = "/catalog/2022-04-01/items"

const (
	maxCatalogPageSize    = 20
	maxCatalogIdentifiers = 20
)

// SearchCatalogItemsRequest holds the optional filters of searchCatalogItems.
// Identifiers and Keywords are mutually exclusive.
type SearchCatalogItemsRequest struct {
	Identifiers       []string
	IdentifiersType   string // ASIN, EAN, GTIN, ISBN, JAN, MINSAN, SKU, UPC
	IncludedData      []string
	Locale            string
	SellerID          string // required when IdentifiersType is SKU
	Keywords          []string
	BrandNames        []string
	ClassificationIDs []string
	PageSize          int
	PageToken         string
	KeywordsLocale    string
}

func (r *SearchCatalogItemsRequest) validate() error {
	switch {
	case len(r.Identifiers) > 0 && len(r.Keywords) > 0:
		return spapi.Validationf("identifiers and keywords cannot be combined")
	case len(r.Identifiers) > maxCatalogIdentifiers:
		return spapi.Validationf("at most %d identifiers allowed", maxCatalogIdentifiers)
	case len(r.Identifiers) > 0 && r.IdentifiersType == "":
		return spapi.Validationf("identifiersType is required with identifiers")
	case r.IdentifiersType == "SKU" && r.SellerID == "":
		return spapi.Validationf("sellerId is required when identifiersType is SKU")
	case len(r.Keywords) == 0 && (len(r.BrandNames) > 0 || len(r.ClassificationIDs) > 0 || r.KeywordsLocale != ""):
		return spapi.Validationf("brandNames, classificationIds and keywordsLocale apply only to keyword searches")
	case r.PageSize < 0 || r.PageSize > maxCatalogPageSize:
		return spapi.Validationf("pageSize must be between 1 and %d", maxCatalogPageSize)
	}
	return nil
}

// SearchCatalogItems searches the catalog of the session's marketplace.
func (c *Client) SearchCatalogItems(
	ctx context.Context,
	req SearchCatalogItemsRequest,
) (*http.Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var p params
	p.list("identifiers", req.Identifiers)
	p.add("identifiersType", req.IdentifiersType)
	p.list("includedData", req.IncludedData)
	p.add("locale", req.Locale)
	p.add("sellerId", req.SellerID)
	p.list("keywords", req.Keywords)
	p.list("brandNames", req.BrandNames)
	p.list("classificationIds", req.ClassificationIDs)
	if req.PageSize > 0 {
		p.add("pageSize", strconv.Itoa(req.PageSize))
	}
	p.add("pageToken", req.PageToken)
	p.add("keywordsLocale", req.KeywordsLocale)

	return c.call(ctx, OpSearchCatalogItems, http.MethodGet, catalogItemsPath, p, nil)
}

// GetCatalogItem returns one catalog item by ASIN.
func (c *Client) GetCatalogItem(
	ctx context.Context,
	asin string,
	includedData []string,
	locale string,
) (*http.Response, error) {
	seg, err := segment("asin", asin)
	if err != nil {
		return nil, err
	}

	var p params
	p.list("includedData", includedData)
	p.add("locale", locale)

	return c.call(ctx, OpGetCatalogItem, http.MethodGet, catalogItemsPath+"/"+seg, p, nil)
}
