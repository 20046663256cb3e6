package mockapi_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/spapi/internal/metrics"
	"github.com/donaldgifford/spapi/internal/mockapi"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		route      string
		wantStatus int
	}{
		{
			name:       "records token exchange",
			method:     http.MethodPost,
			target:     "/auth/o2/token",
			route:      "/auth/o2/token",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "records route pattern not raw path",
			method:     http.MethodGet,
			target:     "/catalog/2022-04-01/items/B07XYZ1234",
			route:      "/catalog/2022-04-01/items/:asin",
			wantStatus: http.StatusForbidden,
		},
	}

	h := mockapi.New().Handler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			counter, err := metrics.MockHTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, counter.Write(m))
			assert.Greater(t, m.GetCounter().GetValue(), float64(0))

			observer, err := metrics.MockHTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestHealthzAndMetricsEndpoints(t *testing.T) {
	h := mockapi.New().Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)

	m := &io_prometheus_client.Metric{}
	require.NoError(t, metrics.MockHealthzUp.Write(m))
	assert.InDelta(t, 1, m.GetGauge().GetValue(), 0)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/o2/token", http.NoBody))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spapi_mock_http_requests_total")
}
