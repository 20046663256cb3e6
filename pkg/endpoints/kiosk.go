package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

const kioskPath = "/dataKiosk/2023-11-15"

const maxKioskPageSize = 100

// ProcessingStatus is the state of a Data Kiosk query.
type ProcessingStatus string

// Processing statuses.
const (
	StatusCancelled  ProcessingStatus = "CANCELLED"
	StatusDone       ProcessingStatus = "DONE"
	StatusFatal      ProcessingStatus = "FATAL"
	StatusInProgress ProcessingStatus = "IN_PROGRESS"
	StatusInQueue    ProcessingStatus = "IN_QUEUE"
)

// GetQueriesRequest filters getQueries. Zero values are omitted.
type GetQueriesRequest struct {
	ProcessingStatuses []ProcessingStatus
	PageSize           int
	CreatedSince       time.Time
	CreatedUntil       time.Time
	PaginationToken    string
}

// GetQueries lists Data Kiosk queries.
func (c *Client) GetQueries(ctx context.Context, req GetQueriesRequest) (*http.Response, error) {
	if req.PageSize != 0 && (req.PageSize < 1 || req.PageSize > maxKioskPageSize) {
		return nil, spapi.Validationf("pageSize must be between 1 and %d", maxKioskPageSize)
	}
	if !req.CreatedSince.IsZero() && !req.CreatedUntil.IsZero() && req.CreatedUntil.Before(req.CreatedSince) {
		return nil, spapi.Validationf("createdUntil is before createdSince")
	}

	var p params
	if len(req.ProcessingStatuses) > 0 {
		statuses := make([]string, len(req.ProcessingStatuses))
		for i, s := range req.ProcessingStatuses {
			statuses[i] = string(s)
		}
		p.add("processingStatuses", strings.Join(statuses, ","))
	}
	if req.PageSize > 0 {
		p.add("pageSize", strconv.Itoa(req.PageSize))
	}
	if !req.CreatedSince.IsZero() {
		p.add("createdSince", req.CreatedSince.UTC().Format(time.RFC3339))
	}
	if !req.CreatedUntil.IsZero() {
		p.add("createdUntil", req.CreatedUntil.UTC().Format(time.RFC3339))
	}
	p.add("paginationToken", req.PaginationToken)

	return c.call(ctx, OpGetQueries, http.MethodGet, kioskPath+"/queries", p, nil)
}

// CreateQuerySpecification is the body of createQuery.
type CreateQuerySpecification struct {
	Query           string `json:"query"`
	PaginationToken string `json:"paginationToken,omitempty"`
}

// CreateQuery submits a GraphQL query for asynchronous processing.
func (c *Client) CreateQuery(ctx context.Context, spec CreateQuerySpecification) (*http.Response, error) {
	if strings.TrimSpace(spec.Query) == "" {
		return nil, spapi.Validationf("query is required")
	}

	body, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	return c.call(ctx, OpCreateQuery, http.MethodPost, kioskPath+"/queries", nil, body)
}

// GetQuery returns the status of one query.
func (c *Client) GetQuery(ctx context.Context, queryID string) (*http.Response, error) {
	id, err := segment("queryId", queryID)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, OpGetQuery, http.MethodGet, kioskPath+"/queries/"+id, nil, nil)
}

// CancelQuery cancels a query that has not finished processing.
func (c *Client) CancelQuery(ctx context.Context, queryID string) (*http.Response, error) {
	id, err := segment("queryId", queryID)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, OpCancelQuery, http.MethodDelete, kioskPath+"/queries/"+id, nil, nil)
}

// GetDocument returns the download URL of a query result document.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*http.Response, error) {
	id, err := segment("documentId", documentID)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, OpGetDocument, http.MethodGet, kioskPath+"/documents/"+id, nil, nil)
}
