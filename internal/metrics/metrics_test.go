package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// promauto registers these on package init.
	assert.NotNil(t, TokenRefreshesTotal)
	assert.NotNil(t, TokenRefreshFailuresTotal)
	assert.NotNil(t, TokenRefreshDuration)
	assert.NotNil(t, TokenCacheLookupsTotal)
	assert.NotNil(t, RequestsTotal)
	assert.NotNil(t, RequestDuration)
	assert.NotNil(t, RateLimitWaitDuration)
}

func TestMetricsLabels(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		RequestsTotal.WithLabelValues("GET", "NA", "200").Inc()
		RequestDuration.WithLabelValues("GET", "NA").Observe(0.1)
		RateLimitWaitDuration.WithLabelValues("getCatalogItem").Observe(0)
		TokenCacheLookupsTotal.WithLabelValues("hit").Inc()
	})
}
