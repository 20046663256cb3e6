package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// Selling Partner API client health.
func AlertRules() PrometheusRule {
	return newPrometheusRule("spapi-alerts", RuleGroup{
		Name: "spapi-alerts",
		Rules: []Rule{
			alert("SpapiTokenRefreshFailing", SeverityCritical, "5m",
				`spapi:token_refresh_failures:rate5m > 0 and spapi:token_refreshes:rate5m == spapi:token_refresh_failures:rate5m`,
				"Every SP-API access token exchange is failing",
				"All Login with Amazon token exchanges have failed for 5 minutes. Check the refresh token and client credentials.",
			),
			alert("SpapiHighErrorRate", SeverityWarning, "5m",
				`spapi:request_errors:rate5m / spapi:requests:rate5m > 0.05`,
				"High SP-API error rate",
				"More than 5% of Selling Partner API requests are failing with 5xx or transport errors.",
			),
			alert("SpapiThrottled", SeverityWarning, "10m",
				`spapi:requests_throttled:rate5m > 0`,
				"SP-API requests are being throttled",
				"The Selling Partner API has answered 429 for 10 minutes. Local rate limits may be set above the account's quota.",
			),
			alert("SpapiTokenCacheErrors", SeverityWarning, "5m",
				`increase(spapi_token_cache_lookups_total{result="error"}[5m]) > 0`,
				"Shared token cache lookups are failing",
				"Redis token cache lookups are erroring. Each process falls back to its own token exchanges.",
			),
		},
	})
}
