// Package panels provides Grafana dashboard panel builders for the
// spapi_* client metrics.
package panels

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Panel sizes on the 24-column grid. A row holds four stats, two wide
// timeseries or three narrow ones.
const (
	StatWidth  = 6
	StatHeight = 4

	TSWidth  = 12
	TSNarrow = 8
	TSHeight = 8

	FullWidth = 24
)

// Grafana unit identifiers used by the client panels.
const (
	UnitRequests = "reqps"
	UnitOps      = "ops"
	UnitSeconds  = "s"
	UnitPercent  = "percent"
)

// RateWindow is the range used by every rate() in the generated queries.
const RateWindow = "5m"

// TokenSafetyMarginSeconds matches the client's stale window. A token
// exchange slower than this returns a token that is already stale.
const TokenSafetyMarginSeconds = 10

// DSRef returns a datasource reference pointing at the ${datasource}
// template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// Quantile returns a histogram_quantile expression over bucket, keeping the
// labels in by.
func Quantile(q float64, bucket string, by ...string) string {
	labels := append(slices.Clone(by), "le")
	return fmt.Sprintf("histogram_quantile(%s, sum by (%s) (rate(%s[%s])))",
		strconv.FormatFloat(q, 'f', -1, 64), strings.Join(labels, ", "), bucket, RateWindow)
}

// RateBy returns the per-second rate of counter summed by the labels in by.
// With no labels the result is a single series.
func RateBy(counter string, by ...string) string {
	if len(by) == 0 {
		return fmt.Sprintf("sum(rate(%s[%s]))", counter, RateWindow)
	}
	return fmt.Sprintf("sum by (%s) (rate(%s[%s]))", strings.Join(by, ", "), counter, RateWindow)
}

// timeSeries returns a line panel with the shared datasource, height and
// styling. Callers set the span, targets and unit.
func timeSeries(title, description string) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		FillOpacity(10).
		LineWidth(2).
		DrawStyle(common.GraphDrawStyleLine)
}

// withPercentiles adds p50, p95 and p99 targets for bucket.
func withPercentiles(b *timeseries.PanelBuilder, bucket string) *timeseries.PanelBuilder {
	return b.
		WithTarget(PromQuery(Quantile(0.50, bucket), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, bucket), "p95", "B")).
		WithTarget(PromQuery(Quantile(0.99, bucket), "p99", "C"))
}

// ThresholdsRedGreen returns thresholds that are red below the value and
// green at or above it.
func ThresholdsRedGreen(greenAbove float64) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "red"},
			{Value: cog.ToPtr[float64](greenAbove), Color: "green"},
		})
}

// ThresholdsGreenYellowRed returns three-tier thresholds.
func ThresholdsGreenYellowRed(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "green"},
			{Value: cog.ToPtr[float64](yellow), Color: "yellow"},
			{Value: cog.ToPtr[float64](red), Color: "red"},
		})
}

// ThresholdsGreenOnly returns a single green threshold step.
func ThresholdsGreenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "green"},
		})
}

// ThresholdsErrorPercent turns yellow at 1% and red at 5%, the
// SpapiHighErrorRate alert threshold.
func ThresholdsErrorPercent() cog.Builder[dashboard.ThresholdsConfig] {
	return ThresholdsGreenYellowRed(1, 5)
}

// ThresholdsTokenLatency turns yellow at one second and red once an exchange
// takes as long as the token safety margin.
func ThresholdsTokenLatency() cog.Builder[dashboard.ThresholdsConfig] {
	return ThresholdsGreenYellowRed(1, TokenSafetyMarginSeconds)
}

// ColorSchemeThresholds returns a color scheme that maps to threshold colors.
func ColorSchemeThresholds() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

// ColorSchemePaletteClassic returns a color scheme using the classic palette.
func ColorSchemePaletteClassic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend returns a bottom table legend with the given calculations.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip returns a tooltip showing all series sorted descending.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
