// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/spapi/tools/dashgen/panels"
)

// BuildOverview constructs the SP-API client dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("SP-API Client").
		Uid("spapi-overview").
		Tags([]string{"spapi", "selling-partner-api"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.RequestRateStat()).
		WithPanel(panels.TokenFailuresStat()).
		WithPanel(panels.CacheHitGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: Requests.
	b.WithRow(dashboard.NewRowBuilder("Requests").
		WithPanel(panels.RequestsByRegion()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.ThrottledRate()))

	// Row 3: Tokens.
	b.WithRow(dashboard.NewRowBuilder("Access Tokens").
		WithPanel(panels.TokenRefreshRate()).
		WithPanel(panels.TokenRefreshLatency()).
		WithPanel(panels.CacheLookups()))

	// Row 4: Rate limiting.
	b.WithRow(dashboard.NewRowBuilder("Rate Limiting").
		WithPanel(panels.RateLimitWait()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
