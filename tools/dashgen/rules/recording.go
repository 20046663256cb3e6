package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("spapi-recording-rules", RuleGroup{
		Name: "spapi-recording",
		Rules: []Rule{
			record("spapi:requests:rate5m", `sum(rate(spapi_requests_total[5m]))`),
			// Transport failures are counted under status="error".
			record("spapi:request_errors:rate5m", `sum(rate(spapi_requests_total{status=~"5..|error"}[5m]))`),
			record("spapi:requests_throttled:rate5m", `sum(rate(spapi_requests_total{status="429"}[5m]))`),
			record("spapi:token_refreshes:rate5m", `rate(spapi_token_refreshes_total[5m])`),
			record("spapi:token_refresh_failures:rate5m", `rate(spapi_token_refresh_failures_total[5m])`),
			record("spapi:token_cache_hits:ratio5m",
				`sum(rate(spapi_token_cache_lookups_total{result="hit"}[5m]))`+
					` / sum(rate(spapi_token_cache_lookups_total[5m]))`),
		},
	})
}
