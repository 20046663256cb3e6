// Package mockapi serves a local stand-in for the Login with Amazon token
// endpoint and a subset of the Selling Partner API. It issues real-looking
// access tokens, enforces the x-amz-access-token and marketplaceIds
// requirements of the live hosts, and keeps listings and Data Kiosk queries
// in memory.
package mockapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the mock state.
type Server struct {
	log      *slog.Logger
	lifetime time.Duration
	nowFunc  func() time.Time

	tokenCalls atomic.Int64

	mu       sync.Mutex
	tokens   map[string]time.Time // access token -> expiry
	listings map[string]*listing  // sellerId/sku
	queries  []*query
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithTokenLifetime sets the expires_in of issued tokens.
func WithTokenLifetime(d time.Duration) Option {
	return func(s *Server) {
		s.lifetime = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = f
	}
}

// New creates a Server with no issued tokens.
func New(opts ...Option) *Server {
	s := &Server{
		log:      slog.New(slog.DiscardHandler),
		lifetime: time.Hour,
		nowFunc:  time.Now,
		tokens:   make(map[string]time.Time),
		listings: make(map[string]*listing),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the Echo app serving every route.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(s.log))
	e.Use(RequestLog(s.log))
	e.Use(Metrics())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/o2/token", s.Token)

	api := e.Group("", s.RequireAccessToken(), RequireMarketplace())

	api.GET("/sellers/v1/marketplaceParticipations", s.MarketplaceParticipations, RateLimit("0.016"))
	api.GET("/sellers/v1/account", s.Account, RateLimit("0.016"))

	api.GET("/catalog/2022-04-01/items", s.SearchCatalogItems, RateLimit("2.0"))
	api.GET("/catalog/2022-04-01/items/:asin", s.GetCatalogItem, RateLimit("2.0"))

	api.GET("/listings/2021-08-01/items/:sellerId", s.SearchListingsItems, RateLimit("5.0"))
	api.GET("/listings/2021-08-01/items/:sellerId/:sku", s.GetListingsItem, RateLimit("5.0"))
	api.PATCH("/listings/2021-08-01/items/:sellerId/:sku", s.PatchListingsItem, RateLimit("5.0"))

	api.GET("/dataKiosk/2023-11-15/queries", s.GetQueries, RateLimit("0.0222"))
	api.POST("/dataKiosk/2023-11-15/queries", s.CreateQuery, RateLimit("0.0167"))
	api.GET("/dataKiosk/2023-11-15/queries/:queryId", s.GetQuery, RateLimit("2.0"))
	api.DELETE("/dataKiosk/2023-11-15/queries/:queryId", s.CancelQuery, RateLimit("0.0222"))
	api.GET("/dataKiosk/2023-11-15/documents/:documentId", s.GetDocument, RateLimit("0.0167"))

	return e
}

// TokenCalls returns how many token exchanges were attempted.
func (s *Server) TokenCalls() int64 {
	return s.tokenCalls.Load()
}

// RevokeTokens invalidates every issued access token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

func (s *Server) validToken(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[tok]
	return ok && s.nowFunc().Before(exp)
}

// page slices n items by a numeric page token and size, returning the
// bounds and the next token ("" on the last page).
func page(n int, token string, size int) (start, end int, next string, ok bool) {
	if token != "" {
		v, err := strconv.Atoi(token)
		if err != nil || v < 0 {
			return 0, 0, "", false
		}
		start = v
	}
	start = min(start, n)
	end = min(start+size, n)
	if end < n {
		next = strconv.Itoa(end)
	}
	return start, end, next, true
}

func invalidInput(c echo.Context, message string) error {
	return apiError(c, http.StatusBadRequest, "InvalidInput", message)
}

func notFound(c echo.Context, message string) error {
	return apiError(c, http.StatusNotFound, "NotFound", message)
}
