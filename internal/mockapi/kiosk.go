package mockapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Query processing statuses.
const (
	statusCancelled  = "CANCELLED"
	statusDone       = "DONE"
	statusFatal      = "FATAL"
	statusInProgress = "IN_PROGRESS"
	statusInQueue    = "IN_QUEUE"
)

type query struct {
	QueryID          string    `json:"queryId"`
	Query            string    `json:"query"`
	CreatedTime      time.Time `json:"createdTime"`
	ProcessingStatus string    `json:"processingStatus"`
	DataDocumentID   string    `json:"dataDocumentId,omitempty"`
}

type createQueryRequest struct {
	Query string `json:"query"`
}

// advance moves a query one step through IN_QUEUE, IN_PROGRESS and DONE.
// Callers hold s.mu.
func (q *query) advance() {
	switch q.ProcessingStatus {
	case statusInQueue:
		q.ProcessingStatus = statusInProgress
	case statusInProgress:
		q.ProcessingStatus = statusDone
		q.DataDocumentID = "doc-" + q.QueryID
	}
}

// CreateQuery queues a query.
func (s *Server) CreateQuery(c echo.Context) error {
	var req createQueryRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return invalidInput(c, "query is required.")
	}

	q := &query{
		QueryID:          uuid.NewString(),
		Query:            req.Query,
		CreatedTime:      s.nowFunc().UTC(),
		ProcessingStatus: statusInQueue,
	}

	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	return c.JSON(http.StatusAccepted, map[string]string{"queryId": q.QueryID})
}

// GetQueries lists queries in creation order.
func (s *Server) GetQueries(c echo.Context) error {
	size := 10
	if v := c.QueryParam("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return invalidInput(c, "pageSize must be between 1 and 100.")
		}
		size = n
	}
	statuses := splitList(c.QueryParam("processingStatuses"))

	s.mu.Lock()
	matched := make([]query, 0, len(s.queries))
	for _, q := range s.queries {
		if len(statuses) == 0 || slices.Contains(statuses, q.ProcessingStatus) {
			matched = append(matched, *q)
		}
	}
	s.mu.Unlock()

	start, end, next, ok := page(len(matched), c.QueryParam("paginationToken"), size)
	if !ok {
		return invalidInput(c, "Invalid paginationToken.")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"queries":    matched[start:end],
		"pagination": pagination{NextToken: next},
	})
}

// GetQuery returns one query. Each read advances its processing status.
func (s *Server) GetQuery(c echo.Context) error {
	id := c.Param("queryId")

	s.mu.Lock()
	q := s.findQuery(id)
	var out query
	if q != nil {
		q.advance()
		out = *q
	}
	s.mu.Unlock()

	if q == nil {
		return notFound(c, "Query '"+id+"' not found.")
	}
	return c.JSON(http.StatusOK, out)
}

// CancelQuery cancels a query that has not finished processing.
func (s *Server) CancelQuery(c echo.Context) error {
	id := c.Param("queryId")

	s.mu.Lock()
	q := s.findQuery(id)
	var status string
	if q != nil {
		status = q.ProcessingStatus
		if status == statusInQueue || status == statusInProgress {
			q.ProcessingStatus = statusCancelled
		}
	}
	s.mu.Unlock()

	switch {
	case q == nil:
		return notFound(c, "Query '"+id+"' not found.")
	case status == statusDone || status == statusFatal || status == statusCancelled:
		return invalidInput(c, "Query '"+id+"' is already "+status+".")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDocument returns the download location of a finished query's result.
func (s *Server) GetDocument(c echo.Context) error {
	id := c.Param("documentId")

	s.mu.Lock()
	found := slices.ContainsFunc(s.queries, func(q *query) bool { return q.DataDocumentID == id })
	s.mu.Unlock()

	if !found {
		return notFound(c, "Document '"+id+"' not found.")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"documentId":  id,
		"documentUrl": "https://mock-datakiosk.local/documents/" + id,
	})
}

func (s *Server) findQuery(id string) *query {
	for _, q := range s.queries {
		if q.QueryID == id {
			return q
		}
	}
	return nil
}
