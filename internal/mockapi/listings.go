package mockapi

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type listing struct {
	SellerID    string
	SKU         string
	ProductType string
	Attributes  map[string]json.RawMessage
}

type listingSummary struct {
	MarketplaceID string   `json:"marketplaceId"`
	ProductType   string   `json:"productType"`
	Status        []string `json:"status"`
}

type listingItem struct {
	SKU        string                     `json:"sku"`
	Summaries  []listingSummary           `json:"summaries"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

type patchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type patchRequest struct {
	ProductType string           `json:"productType"`
	Patches     []patchOperation `json:"patches"`
}

type submissionResponse struct {
	SKU          string        `json:"sku"`
	Status       string        `json:"status"`
	SubmissionID string        `json:"submissionId"`
	Issues       []errorDetail `json:"issues"`
}

func listingKey(sellerID, sku string) string {
	return sellerID + "/" + sku
}

// pathParams returns the unescaped sellerId and sku route parameters.
func pathParams(c echo.Context) (sellerID, sku string, err error) {
	if sellerID, err = url.PathUnescape(c.Param("sellerId")); err != nil {
		return "", "", err
	}
	if sku, err = url.PathUnescape(c.Param("sku")); err != nil {
		return "", "", err
	}
	return sellerID, sku, nil
}

func (l *listing) item(marketplaceID string) listingItem {
	return listingItem{
		SKU: l.SKU,
		Summaries: []listingSummary{{
			MarketplaceID: marketplaceID,
			ProductType:   l.ProductType,
			Status:        []string{"BUYABLE"},
		}},
		Attributes: maps.Clone(l.Attributes),
	}
}

// GetListingsItem returns a listing created by PatchListingsItem.
func (s *Server) GetListingsItem(c echo.Context) error {
	sellerID, sku, err := pathParams(c)
	if err != nil {
		return invalidInput(c, "Invalid path parameter.")
	}

	s.mu.Lock()
	l, ok := s.listings[listingKey(sellerID, sku)]
	var item listingItem
	if ok {
		item = l.item(c.QueryParam("marketplaceIds"))
	}
	s.mu.Unlock()

	if !ok {
		return notFound(c, "SKU '"+sku+"' not found.")
	}
	return c.JSON(http.StatusOK, item)
}

// PatchListingsItem applies "replace" and "delete" patches to a listing,
// creating it if needed. With mode=VALIDATION_PREVIEW nothing is stored.
func (s *Server) PatchListingsItem(c echo.Context) error {
	sellerID, sku, err := pathParams(c)
	if err != nil {
		return invalidInput(c, "Invalid path parameter.")
	}

	var req patchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return invalidInput(c, "Request body is not valid JSON.")
	}
	if req.ProductType == "" || len(req.Patches) == 0 {
		return invalidInput(c, "productType and patches are required.")
	}

	resp := submissionResponse{
		SKU:          sku,
		Status:       "ACCEPTED",
		SubmissionID: uuid.NewString(),
		Issues:       []errorDetail{},
	}
	for _, p := range req.Patches {
		if p.Op != "replace" && p.Op != "delete" && p.Op != "add" {
			resp.Status = "INVALID"
			resp.Issues = append(resp.Issues, errorDetail{
				Code:    "InvalidPatch",
				Message: "Unsupported patch operation " + strconv.Quote(p.Op),
			})
		}
	}
	if resp.Status == "INVALID" {
		return c.JSON(http.StatusBadRequest, resp)
	}
	if c.QueryParam("mode") == "VALIDATION_PREVIEW" {
		resp.Status = "VALID"
		return c.JSON(http.StatusOK, resp)
	}

	s.mu.Lock()
	key := listingKey(sellerID, sku)
	l, ok := s.listings[key]
	if !ok {
		l = &listing{SellerID: sellerID, SKU: sku, Attributes: make(map[string]json.RawMessage)}
		s.listings[key] = l
	}
	l.ProductType = req.ProductType
	for _, p := range req.Patches {
		if p.Op == "delete" {
			delete(l.Attributes, p.Path)
			continue
		}
		l.Attributes[p.Path] = p.Value
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

// SearchListingsItems lists a seller's listings ordered by SKU.
func (s *Server) SearchListingsItems(c echo.Context) error {
	sellerID, _, err := pathParams(c)
	if err != nil {
		return invalidInput(c, "Invalid path parameter.")
	}

	size := 10
	if v := c.QueryParam("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 20 {
			return invalidInput(c, "pageSize must be between 1 and 20.")
		}
		size = n
	}
	identifiers := splitList(c.QueryParam("identifiers"))

	marketplaceID := c.QueryParam("marketplaceIds")
	s.mu.Lock()
	var items []listingItem
	for _, l := range s.listings {
		if l.SellerID != sellerID {
			continue
		}
		if len(identifiers) > 0 && !slices.Contains(identifiers, l.SKU) {
			continue
		}
		items = append(items, l.item(marketplaceID))
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].SKU < items[j].SKU })

	start, end, next, ok := page(len(items), c.QueryParam("pageToken"), size)
	if !ok {
		return invalidInput(c, "Invalid pageToken.")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"numberOfResults": len(items),
		"pagination":      pagination{NextToken: next},
		"items":           append([]listingItem{}, items[start:end]...),
	})
}

