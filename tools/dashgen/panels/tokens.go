package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokenRefreshRate returns a timeseries panel showing token exchanges and
// failures per second.
func TokenRefreshRate() *timeseries.PanelBuilder {
	return timeSeries("Token Exchanges", "Access token exchanges and failures per second").
		Span(TSNarrow).
		WithTarget(PromQuery(`spapi:token_refreshes:rate5m`, "exchanges", "A")).
		WithTarget(PromQuery(`spapi:token_refresh_failures:rate5m`, "failures", "B")).
		Unit(UnitOps).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// TokenRefreshLatency returns a timeseries panel showing p95 token exchange
// latency against the stale window.
func TokenRefreshLatency() *timeseries.PanelBuilder {
	return timeSeries("Token Exchange Latency (p95)", "95th percentile Login with Amazon token exchange duration").
		Span(TSNarrow).
		WithTarget(PromQuery(Quantile(0.95, "spapi_token_refresh_duration_seconds_bucket"), "p95", "A")).
		Unit(UnitSeconds).
		Thresholds(ThresholdsTokenLatency()).
		ColorScheme(ColorSchemeThresholds())
}

// CacheLookups returns a timeseries panel showing shared token cache lookups
// by result.
func CacheLookups() *timeseries.PanelBuilder {
	return timeSeries("Token Cache Lookups", "Shared token cache lookups per second by result (hit, miss, stale, error)").
		Span(TSNarrow).
		WithTarget(PromQuery(RateBy("spapi_token_cache_lookups_total", "result"), "{{result}}", "A")).
		Unit(UnitOps).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
