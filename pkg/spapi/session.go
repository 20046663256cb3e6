package spapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/spapi/internal/metrics"
	"github.com/donaldgifford/spapi/pkg/marketplace"
)

const (
	headerAccessToken = "x-amz-access-token"
	marketplaceParam  = "marketplaceIds"
)

// Session is one authenticated identity: immutable credentials, the access
// token manager, and the transport. It is safe for concurrent use.
type Session struct {
	creds    Credentials
	tokens   *TokenManager
	client   Doer
	logger   *slog.Logger
	sandbox  bool
	endpoint string

	tokenOpts []TokenOption
}

// Option configures the Session.
type Option func(*Session)

// WithHTTPClient overrides the transport used for resource requests and,
// unless WithTokenOptions says otherwise, token exchanges.
func WithHTTPClient(c Doer) Option {
	return func(s *Session) {
		s.client = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithSandbox routes requests to the sandbox host of the marketplace's region.
func WithSandbox() Option {
	return func(s *Session) {
		s.sandbox = true
	}
}

// WithEndpoint overrides the regional base URL, e.g. for a local mock server.
func WithEndpoint(u string) Option {
	return func(s *Session) {
		s.endpoint = u
	}
}

// WithTokenOptions passes options through to the session's TokenManager.
func WithTokenOptions(opts ...TokenOption) Option {
	return func(s *Session) {
		s.tokenOpts = append(s.tokenOpts, opts...)
	}
}

// New creates a Session for creds.
func New(creds Credentials, opts ...Option) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		creds:  creds,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	tokenOpts := append([]TokenOption{
		WithTokenHTTPClient(s.client),
		WithTokenLogger(s.logger),
	}, s.tokenOpts...)
	s.tokens = NewTokenManager(creds, tokenOpts...)

	return s, nil
}

// Marketplace returns the marketplace every request is routed to.
func (s *Session) Marketplace() marketplace.Marketplace {
	return s.creds.Marketplace
}

// Tokens returns the session's token manager.
func (s *Session) Tokens() *TokenManager {
	return s.tokens
}

// Endpoint returns the base URL requests are sent to.
func (s *Session) Endpoint() string {
	_, base := s.resolve()
	return base
}

func (s *Session) resolve() (id, baseURL string) {
	id, baseURL = marketplace.Details(s.creds.Marketplace)
	switch {
	case s.endpoint != "":
		baseURL = s.endpoint
	case s.sandbox:
		baseURL = s.creds.Marketplace.Region().SandboxEndpoint()
	}
	return id, baseURL
}

// Request sends an authenticated request without a body. The session's
// marketplace id is appended to params as marketplaceIds; callers must not
// pass that key themselves. Any status code is returned as a response; the
// caller owns and must close the body.
func (s *Session) Request(
	ctx context.Context,
	path, method string,
	params []Param,
) (*http.Response, error) {
	return s.do(ctx, path, method, params, nil)
}

// RequestWithBody is Request with an opaque JSON body.
func (s *Session) RequestWithBody(
	ctx context.Context,
	path, method string,
	params []Param,
	body []byte,
) (*http.Response, error) {
	if body == nil {
		body = []byte{}
	}
	return s.do(ctx, path, method, params, body)
}

func (s *Session) do(
	ctx context.Context,
	path, method string,
	params []Param,
	body []byte,
) (resp *http.Response, err error) {
	for _, p := range params {
		if p.Key == marketplaceParam {
			return nil, Validationf("%s is set by the session and may not be passed", marketplaceParam)
		}
	}

	id, baseURL := s.resolve()
	region := s.creds.Marketplace.Region().String()
	reqID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "spapi.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("spapi.path", path),
			attribute.String("spapi.region", region),
			attribute.String("spapi.request_id", reqID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	token, err := s.tokens.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Param, 0, len(params)+1)
	all = append(all, params...)
	all = append(all, Param{Key: marketplaceParam, Value: id})

	headers := http.Header{}
	headers.Set(headerAccessToken, token.AccessToken)
	headers.Set("Content-Type", "application/json")
	headers.Set("User-Agent", UserAgent)

	req, err := BuildRequest(ctx, method, baseURL, path, all, headers, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err = s.client.Do(req)
	elapsed := time.Since(start)
	metrics.RequestDuration.WithLabelValues(method, region).Observe(elapsed.Seconds())

	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, region, "error").Inc()
		s.logger.Warn("request failed",
			"method", method,
			"path", path,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", reqID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: executing %s %s: %w", ErrTransport, method, path, err)
	}

	status := strconv.Itoa(resp.StatusCode)
	metrics.RequestsTotal.WithLabelValues(method, region, status).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	s.logger.Info("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", reqID,
		"amzn_request_id", resp.Header.Get("x-amzn-RequestId"),
	)

	return resp, nil
}
