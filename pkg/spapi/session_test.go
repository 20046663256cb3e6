package spapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/spapi/pkg/marketplace"
	"github.com/donaldgifford/spapi/pkg/spapi"
	"github.com/donaldgifford/spapi/pkg/spapi/mocks"
)

// newTokenServer serves successful exchanges and counts them.
func newTokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write(tokenJSON("Atza|session-token", 3600))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RejectsInvalidCredentials(t *testing.T) {
	t.Parallel()

	creds := testCreds
	creds.ClientSecret = ""

	s, err := spapi.New(creds)
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrValidation)
	assert.Nil(t, s)
}

func TestSession_Endpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    marketplace.Marketplace
		opts []spapi.Option
		want string
	}{
		{name: "united states", m: marketplace.UnitedStates, want: marketplace.EndpointNA},
		{name: "germany", m: marketplace.Germany, want: marketplace.EndpointEU},
		{name: "japan", m: marketplace.Japan, want: marketplace.EndpointFE},
		{
			name: "sandbox",
			m:    marketplace.France,
			opts: []spapi.Option{spapi.WithSandbox()},
			want: marketplace.SandboxEndpointEU,
		},
		{
			name: "explicit endpoint wins",
			m:    marketplace.France,
			opts: []spapi.Option{spapi.WithSandbox(), spapi.WithEndpoint("http://localhost:8089")},
			want: "http://localhost:8089",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds := testCreds
			creds.Marketplace = tt.m
			s, err := spapi.New(creds, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Endpoint())
			assert.Equal(t, tt.m, s.Marketplace())
		})
	}
}

func TestSession_RequestRoutesToRegionalHost(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	var captured *http.Request
	doer := mocks.NewDoer(t)
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.URL.Host == "sellingpartnerapi-na.amazon.com"
	})).Run(func(args mock.Arguments) {
		captured = args.Get(0).(*http.Request)
	}).Return(&http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{}`))),
	}, nil).Once()

	s, err := spapi.New(testCreds,
		spapi.WithHTTPClient(doer),
		spapi.WithTokenOptions(
			spapi.WithTokenURL(tokenSrv.URL),
			spapi.WithTokenHTTPClient(tokenSrv.Client()),
		),
	)
	require.NoError(t, err)

	resp, err := s.Request(context.Background(), "/catalog/2022-04-01/items", http.MethodGet, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, captured)
	assert.Equal(t, "https", captured.URL.Scheme)
	assert.Equal(t, "sellingpartnerapi-na.amazon.com", captured.URL.Host)
	assert.Equal(t, "/catalog/2022-04-01/items", captured.URL.Path)
	assert.Equal(t, "marketplaceIds=ATVPDKIKX0DER", captured.URL.RawQuery)
	assert.Equal(t, "Atza|session-token", captured.Header.Get("x-amz-access-token"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, spapi.UserAgent, captured.Header.Get("User-Agent"))
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestSession_RequestPreservesParamsAndAppendsMarketplace(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a=1&a=2&includedData=summaries%2Cimages&marketplaceIds=A1PA6795UKMFR9", r.URL.RawQuery)
		q, err := url.ParseQuery(r.URL.RawQuery)
		assert.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, q["a"])
		w.WriteHeader(http.StatusTeapot)
	}))
	defer api.Close()

	creds := testCreds
	creds.Marketplace = marketplace.Germany

	s, err := spapi.New(creds,
		spapi.WithEndpoint(api.URL),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	resp, err := s.Request(context.Background(), "/x", http.MethodGet,
		spapi.Params("a", "1", "a", "2", "includedData", "summaries,images"))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Non-2xx statuses come back as raw responses.
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestSession_RequestWithBody(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"query":"query { x }"}`, string(body))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"queryId":"q-1"}`))
	}))
	defer api.Close()

	s, err := spapi.New(testCreds,
		spapi.WithEndpoint(api.URL),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	resp, err := s.RequestWithBody(context.Background(), "/dataKiosk/2023-11-15/queries",
		http.MethodPost, nil, []byte(`{"query":"query { x }"}`))
	require.NoError(t, err)

	var out struct {
		QueryID string `json:"queryId"`
	}
	require.NoError(t, spapi.DecodeJSON(resp, &out))
	assert.Equal(t, "q-1", out.QueryID)
}

func TestSession_RejectsCallerMarketplaceIDs(t *testing.T) {
	t.Parallel()

	doer := mocks.NewDoer(t)

	s, err := spapi.New(testCreds, spapi.WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = s.Request(context.Background(), "/x", http.MethodGet, spapi.Params("marketplaceIds", "A1PA6795UKMFR9"))
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrValidation)
	doer.AssertNotCalled(t, "Do", mock.Anything)
}

func TestSession_RefreshFailureAbortsRequest(t *testing.T) {
	t.Parallel()

	var (
		tokenCalls atomic.Int32
		fail       atomic.Bool
	)
	fail.Store(true)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		tokenCalls.Add(1)
		if fail.Load() {
			// Drop the connection to simulate a network error.
			hj, ok := w.(http.Hijacker)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
			return
		}
		_, _ = w.Write(tokenJSON("Atza|late-token", 3600))
	}))
	defer tokenSrv.Close()

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apiCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	s, err := spapi.New(testCreds,
		spapi.WithEndpoint(api.URL),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	_, err = s.Request(context.Background(), "/sellers/v1/account", http.MethodGet, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrAuth)
	assert.ErrorIs(t, err, spapi.ErrTransport)
	assert.Equal(t, int32(0), apiCalls.Load(), "request must not be sent without a fresh token")

	fail.Store(false)

	resp, err := s.Request(context.Background(), "/sellers/v1/account", http.MethodGet, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), apiCalls.Load())
	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestSession_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	release := make(chan struct{})
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		tokenCalls.Add(1)
		<-release
		_, _ = w.Write(tokenJSON("Atza|shared", 3600))
	}))
	defer tokenSrv.Close()

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		assert.Equal(t, "Atza|shared", r.Header.Get("x-amz-access-token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	s, err := spapi.New(testCreds,
		spapi.WithEndpoint(api.URL),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			resp, err := s.Request(context.Background(), "/sellers/v1/account", http.MethodGet, nil)
			if assert.NoError(t, err) {
				resp.Body.Close()
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), tokenCalls.Load())
	assert.Equal(t, int32(n), apiCalls.Load())
}

func TestSession_TransportFailure(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	doer := mocks.NewDoer(t)
	doer.On("Do", mock.Anything).Return(nil, errors.New("connection reset by peer")).Once()

	s, err := spapi.New(testCreds,
		spapi.WithHTTPClient(doer),
		spapi.WithTokenOptions(
			spapi.WithTokenURL(tokenSrv.URL),
			spapi.WithTokenHTTPClient(tokenSrv.Client()),
		),
	)
	require.NoError(t, err)

	_, err = s.Request(context.Background(), "/sellers/v1/account", http.MethodGet, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrTransport)
	assert.NotErrorIs(t, err, spapi.ErrAuth)
}

func TestSession_ContextCancelsTransport(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	s, err := spapi.New(testCreds,
		spapi.WithEndpoint(api.URL),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	// Prime the token so the deadline only covers the resource call.
	_, err = s.Tokens().EnsureFresh(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = s.Request(ctx, "/slow", http.MethodGet, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_InvalidPath(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	s, err := spapi.New(testCreds, spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)))
	require.NoError(t, err)

	_, err = s.Request(context.Background(), "no-slash", http.MethodGet, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, spapi.ErrURL)
}

func TestSession_LogsDispatch(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	tokenSrv := newTokenServer(t, &tokenCalls)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-amzn-RequestId", "amzn-req-1")
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := spapi.New(testCreds,
		spapi.WithEndpoint(api.URL),
		spapi.WithLogger(logger),
		spapi.WithTokenOptions(spapi.WithTokenURL(tokenSrv.URL)),
	)
	require.NoError(t, err)

	resp, err := s.Request(context.Background(), "/sellers/v1/account", http.MethodGet, nil)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "path=/sellers/v1/account")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "amzn_request_id=amzn-req-1")
	assert.NotContains(t, out, "Atza|session-token")
}
