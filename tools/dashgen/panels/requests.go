package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestsByRegion returns a timeseries panel showing request rate per
// regional host.
func RequestsByRegion() *timeseries.PanelBuilder {
	return timeSeries("Requests by Region", "Requests per second by regional host (NA, EU, FE)").
		Span(TSWidth).
		WithTarget(PromQuery(RateBy("spapi_requests_total", "region"), "{{region}}", "A")).
		Unit(UnitRequests).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// LatencyPercentiles returns a timeseries panel showing p50, p95, and p99
// request latencies.
func LatencyPercentiles() *timeseries.PanelBuilder {
	return withPercentiles(
		timeSeries("Latency Percentiles", "Selling Partner API request duration percentiles"),
		"spapi_request_duration_seconds_bucket",
	).
		Span(TSWidth).
		Unit(UnitSeconds).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// ErrorRate returns a timeseries panel showing 5xx and transport failures
// as a percentage of requests.
func ErrorRate() *timeseries.PanelBuilder {
	return timeSeries("Error Rate %", "5xx responses and transport failures as percentage of total requests").
		Span(TSWidth).
		WithTarget(PromQuery(`spapi:request_errors:rate5m / spapi:requests:rate5m * 100`, "error %", "A")).
		Unit(UnitPercent).
		Thresholds(ThresholdsErrorPercent()).
		ColorScheme(ColorSchemeThresholds())
}

// ThrottledRate returns a timeseries panel showing 429 responses per second.
func ThrottledRate() *timeseries.PanelBuilder {
	return timeSeries("Throttled Requests", "429 QuotaExceeded responses per second").
		Span(TSWidth).
		WithTarget(PromQuery(`spapi:requests_throttled:rate5m`, "429/s", "A")).
		Unit(UnitRequests).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds())
}
