package spapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/spapi/internal/metrics"
	"github.com/donaldgifford/spapi/pkg/marketplace"
)

const (
	// DefaultTokenURL is the Login with Amazon token endpoint.
	DefaultTokenURL = "https://api.amazon.com/auth/o2/token" //nolint:gosec // not a credential

	// SafetyMargin is how long before expiry a token is treated as stale.
	SafetyMargin = 10 * time.Second

	// MaxExpiresIn bounds the lifetime, in seconds, accepted from the issuer.
	MaxExpiresIn = int64(365 * 24 * time.Hour / time.Second)
)

// Credentials identify one selling partner application authorization.
type Credentials struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
	Marketplace  marketplace.Marketplace
}

// Validate reports missing fields or an unsupported marketplace.
func (c Credentials) Validate() error {
	switch {
	case c.RefreshToken == "":
		return Validationf("refresh token is required")
	case c.ClientID == "":
		return Validationf("client id is required")
	case c.ClientSecret == "":
		return Validationf("client secret is required")
	case !c.Marketplace.Valid():
		return Validationf("unsupported marketplace %d", int(c.Marketplace))
	}
	return nil
}

// AccessToken is a short-lived bearer credential. It is never modified after
// creation; a refresh produces a new value.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ExpiresAt returns the issuer-reported expiry instant.
func (t *AccessToken) ExpiresAt() time.Time {
	return t.IssuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// IsStale reports whether t must be refreshed before use at now:
// now - IssuedAt >= ExpiresIn - SafetyMargin. A nil token is stale.
func IsStale(t *AccessToken, now time.Time) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresIn <= 0 || t.ExpiresIn > MaxExpiresIn {
		return true
	}
	lifetime := time.Duration(t.ExpiresIn)*time.Second - SafetyMargin
	return now.Sub(t.IssuedAt) >= lifetime
}

// TokenManager exchanges the refresh token for access tokens and keeps the
// current one fresh. At most one exchange is in flight at a time; callers
// that find the token stale while an exchange is running share its result,
// error included, instead of starting another.
type TokenManager struct {
	creds    Credentials
	tokenURL string
	client   Doer
	store    TokenStore
	logger   *slog.Logger
	nowFunc  func() time.Time

	flight  singleflight.Group
	current atomic.Pointer[AccessToken]
}

// TokenOption configures the TokenManager.
type TokenOption func(*TokenManager)

// WithTokenURL overrides the default token endpoint.
func WithTokenURL(u string) TokenOption {
	return func(m *TokenManager) {
		m.tokenURL = u
	}
}

// WithTokenHTTPClient overrides the HTTP client used for token exchanges.
func WithTokenHTTPClient(c Doer) TokenOption {
	return func(m *TokenManager) {
		m.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.nowFunc = f
	}
}

// WithTokenStore shares access tokens through s.
func WithTokenStore(s TokenStore) TokenOption {
	return func(m *TokenManager) {
		m.store = s
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(l *slog.Logger) TokenOption {
	return func(m *TokenManager) {
		m.logger = l
	}
}

// NewTokenManager creates a token manager for creds.
func NewTokenManager(creds Credentials, opts ...TokenOption) *TokenManager {
	m := &TokenManager{
		creds:    creds,
		tokenURL: DefaultTokenURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   slog.New(slog.DiscardHandler),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Current returns the token held right now, which may be nil or stale.
func (m *TokenManager) Current() *AccessToken {
	return m.current.Load()
}

// Invalidate drops the held token so the next EnsureFresh exchanges again.
func (m *TokenManager) Invalidate() {
	m.current.Store(nil)
}

// EnsureFresh returns a token that is fresh at the time of the call,
// exchanging the refresh token first if needed. The held token is replaced
// only when the exchange succeeds; failures are returned wrapped in ErrAuth.
//
// The exchange runs detached from ctx so that one caller giving up does not
// fail the others sharing it. A caller whose ctx ends returns early.
func (m *TokenManager) EnsureFresh(ctx context.Context) (*AccessToken, error) {
	if tok := m.current.Load(); !IsStale(tok, m.nowFunc()) {
		return tok, nil
	}

	refreshCtx := context.WithoutCancel(ctx)
	ch := m.flight.DoChan("refresh", func() (any, error) {
		return m.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for token refresh: %w", ErrAuth, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: refreshing access token: %w", ErrAuth, res.Err)
		}
		return res.Val.(*AccessToken), nil //nolint:forcetypeassert // refresh only returns *AccessToken
	}
}

func (m *TokenManager) refresh(ctx context.Context) (*AccessToken, error) {
	// A previous flight may have finished between the caller's check and ours.
	if tok := m.current.Load(); !IsStale(tok, m.nowFunc()) {
		return tok, nil
	}

	if tok := m.loadShared(ctx); tok != nil {
		m.current.Store(tok)
		return tok, nil
	}

	tok, err := m.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	m.current.Store(tok)
	m.saveShared(ctx, tok)

	return tok, nil
}

// Acquire performs one refresh-token exchange. It does not touch the held
// token.
func (m *TokenManager) Acquire(ctx context.Context) (tok *AccessToken, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "spapi.token.exchange")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	metrics.TokenRefreshesTotal.Inc()
	defer func() {
		metrics.TokenRefreshDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.TokenRefreshFailuresTotal.Inc()
			m.logger.Warn("access token exchange failed", "error", err)
		}
	}()

	payload, err := json.Marshal(tokenRequest{
		RefreshToken: m.creds.RefreshToken,
		ClientID:     m.creds.ClientID,
		ClientSecret: m.creds.ClientSecret,
		GrantType:    "refresh_token",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.tokenURL,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating token request: %w", ErrURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	issuedAt := m.nowFunc()

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing token request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading token response: %w", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		_ = json.Unmarshal(body, &errResp) //nolint:errcheck // best-effort error parsing
		kind := ErrTransport
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = ErrAuth
		}
		return nil, fmt.Errorf(
			"%w: token request failed (status %d): %s - %s",
			kind,
			resp.StatusCode,
			errResp.Error,
			errResp.ErrorDescription,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: parsing token response: %w", ErrMalformedResponse, err)
	}
	if tokenResp.AccessToken == "" || tokenResp.ExpiresIn <= 0 {
		return nil, fmt.Errorf(
			"%w: token response missing access_token or expires_in",
			ErrMalformedResponse,
		)
	}
	if tokenResp.ExpiresIn > MaxExpiresIn {
		return nil, fmt.Errorf(
			"%w: token expires_in %d exceeds %d seconds",
			ErrMalformedResponse,
			tokenResp.ExpiresIn,
			MaxExpiresIn,
		)
	}

	m.logger.Debug("access token exchanged",
		"token_type", tokenResp.TokenType,
		"expires_in", tokenResp.ExpiresIn,
	)

	return &AccessToken{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		ExpiresIn:   tokenResp.ExpiresIn,
		IssuedAt:    issuedAt,
	}, nil
}

func (m *TokenManager) loadShared(ctx context.Context) *AccessToken {
	if m.store == nil {
		return nil
	}

	tok, err := m.store.Load(ctx)
	switch {
	case err != nil:
		metrics.TokenCacheLookupsTotal.WithLabelValues("error").Inc()
		m.logger.Warn("loading shared access token", "error", err)
		return nil
	case tok == nil:
		metrics.TokenCacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil
	case IsStale(tok, m.nowFunc()):
		metrics.TokenCacheLookupsTotal.WithLabelValues("stale").Inc()
		return nil
	}

	metrics.TokenCacheLookupsTotal.WithLabelValues("hit").Inc()
	return tok
}

func (m *TokenManager) saveShared(ctx context.Context, tok *AccessToken) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, tok); err != nil {
		m.logger.Warn("saving shared access token", "error", err)
	}
}
