package endpoints

import (
	"context"
	"net/http"
	"strconv"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

const listingsItemsPath = "/listings/2021-08-01/items"

const (
	maxListingsPageSize    = 20
	maxListingsIdentifiers = 20
)

// Listings includedData values.
const (
	IncludeSummaries               = "summaries"
	IncludeAttributes              = "attributes"
	IncludeIssues                  = "issues"
	IncludeOffers                  = "offers"
	IncludeFulfillmentAvailability = "fulfillmentAvailability"
	IncludeProcurement             = "procurement"
	IncludeRelationships           = "relationships"
	IncludeProductTypes            = "productTypes"
)

// GetListingsItem returns the listing of sku for sellerID.
func (c *Client) GetListingsItem(
	ctx context.Context,
	sellerID, sku string,
	includedData []string,
	issueLocale string,
) (*http.Response, error) {
	path, err := listingsItemPath(sellerID, sku)
	if err != nil {
		return nil, err
	}

	var p params
	p.list("includedData", includedData)
	p.add("issueLocale", issueLocale)

	return c.call(ctx, OpGetListingsItem, http.MethodGet, path, p, nil)
}

// PatchListingsItemRequest is a partial listing update. Body is the JSON
// document holding productType and patches.
type PatchListingsItemRequest struct {
	Body         []byte
	IncludedData []string
	IssueLocale  string
	// ValidationPreview asks Amazon to validate the patch without applying it.
	ValidationPreview bool
}

// PatchListingsItem partially updates the listing of sku for sellerID.
func (c *Client) PatchListingsItem(
	ctx context.Context,
	sellerID, sku string,
	req PatchListingsItemRequest,
) (*http.Response, error) {
	path, err := listingsItemPath(sellerID, sku)
	if err != nil {
		return nil, err
	}
	if len(req.Body) == 0 {
		return nil, spapi.Validationf("patch body is required")
	}

	var p params
	p.list("includedData", req.IncludedData)
	if req.ValidationPreview {
		p.add("mode", "VALIDATION_PREVIEW")
	}
	p.add("issueLocale", req.IssueLocale)

	return c.call(ctx, OpPatchListingsItem, http.MethodPatch, path, p, req.Body)
}

// SearchListingsItemsRequest holds the optional filters of
// searchListingsItems. Identifiers excludes VariationParentSKU and
// PackageHierarchySKU, which also exclude each other.
type SearchListingsItemsRequest struct {
	Identifiers         []string
	IdentifiersType     string // ASIN, EAN, FNSKU, GTIN, ISBN, JAN, MINSAN, SKU, UPC
	VariationParentSKU  string
	PackageHierarchySKU string
	CreatedAfter        string
	CreatedBefore       string
	LastUpdatedAfter    string
	LastUpdatedBefore   string
	WithIssueSeverity   []string
	WithStatus          []string
	WithoutStatus       []string
	SortBy              string
	SortOrder           string
	PageSize            int
	PageToken           string
	IncludedData        []string
	IssueLocale         string
}

func (r *SearchListingsItemsRequest) validate() error {
	switch {
	case len(r.Identifiers) > 0 && (r.VariationParentSKU != "" || r.PackageHierarchySKU != ""):
		return spapi.Validationf("identifiers cannot be combined with variationParentSku or packageHierarchySku")
	case r.VariationParentSKU != "" && r.PackageHierarchySKU != "":
		return spapi.Validationf("variationParentSku and packageHierarchySku cannot be combined")
	case len(r.Identifiers) > maxListingsIdentifiers:
		return spapi.Validationf("at most %d identifiers allowed", maxListingsIdentifiers)
	case len(r.Identifiers) > 0 && r.IdentifiersType == "":
		return spapi.Validationf("identifiersType is required with identifiers")
	case r.PageSize < 0 || r.PageSize > maxListingsPageSize:
		return spapi.Validationf("pageSize must be between 1 and %d", maxListingsPageSize)
	}
	return nil
}

// SearchListingsItems lists the seller's listings.
func (c *Client) SearchListingsItems(
	ctx context.Context,
	sellerID string,
	req SearchListingsItemsRequest,
) (*http.Response, error) {
	seller, err := segment("sellerId", sellerID)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	var p params
	p.list("identifiers", req.Identifiers)
	p.add("identifiersType", req.IdentifiersType)
	p.add("variationParentSku", req.VariationParentSKU)
	p.add("packageHierarchySku", req.PackageHierarchySKU)
	p.add("createdAfter", req.CreatedAfter)
	p.add("createdBefore", req.CreatedBefore)
	p.add("lastUpdatedAfter", req.LastUpdatedAfter)
	p.add("lastUpdatedBefore", req.LastUpdatedBefore)
	p.list("withIssueSeverity", req.WithIssueSeverity)
	p.list("withStatus", req.WithStatus)
	p.list("withoutStatus", req.WithoutStatus)
	p.add("sortBy", req.SortBy)
	p.add("sortOrder", req.SortOrder)
	if req.PageSize > 0 {
		p.add("pageSize", strconv.Itoa(req.PageSize))
	}
	p.add("pageToken", req.PageToken)
	p.list("includedData", req.IncludedData)
	p.add("issueLocale", req.IssueLocale)

	return c.call(ctx, OpSearchListingsItems, http.MethodGet, listingsItemsPath+"/"+seller, p, nil)
}

func listingsItemPath(sellerID, sku string) (string, error) {
	seller, err := segment("sellerId", sellerID)
	if err != nil {
		return "", err
	}
	s, err := segment("sku", sku)
	if err != nil {
		return "", err
	}
	return listingsItemsPath + "/" + seller + "/" + s, nil
}
