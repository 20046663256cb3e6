package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RateLimitWait returns a timeseries panel showing p95 time spent waiting on
// the per-operation limiter.
func RateLimitWait() *timeseries.PanelBuilder {
	return timeSeries("Rate Limit Wait (p95)", "95th percentile wait before dispatch, by operation").
		Span(FullWidth).
		WithTarget(PromQuery(
			Quantile(0.95, "spapi_rate_limit_wait_seconds_bucket", "operation"),
			"{{operation}}", "A",
		)).
		Unit(UnitSeconds).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
