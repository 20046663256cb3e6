package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// RequestRateStat returns a stat panel showing the current request rate.
func RequestRateStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Requests/s").
		Description("Authenticated Selling Partner API requests per second").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`spapi:requests:rate5m`, "", "A")).
		Unit(UnitRequests).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// TokenFailuresStat returns a stat panel showing failed token exchanges in
// the past 24 hours.
func TokenFailuresStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Token Failures (24h)").
		Description("Failed Login with Amazon token exchanges in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(increase(spapi_token_refresh_failures_total[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// CacheHitGauge returns a gauge panel showing the shared token cache hit
// ratio as a percentage.
func CacheHitGauge() *gauge.PanelBuilder {
	return gauge.NewPanelBuilder().
		Title("Token Cache Hit %").
		Description("Share of token cache lookups served by a fresh cached token").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`spapi:token_cache_hits:ratio5m * 100`, "", "A")).
		Unit(UnitPercent).
		Min(0).
		Max(100).
		Thresholds(ThresholdsRedGreen(50)).
		ColorScheme(ColorSchemeThresholds())
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - process_start_time_seconds`, "", "A")).
		Unit(UnitSeconds).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
