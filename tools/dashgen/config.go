package main

import "errors"

// KnownMetrics is the set of metric names exported by the spapi packages
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Token metrics.
	"spapi_token_refreshes_total":                 true,
	"spapi_token_refresh_failures_total":          true,
	"spapi_token_refresh_duration_seconds_bucket": true,
	"spapi_token_cache_lookups_total":             true,

	// Request metrics.
	"spapi_requests_total":                  true,
	"spapi_request_duration_seconds_bucket": true,
	"spapi_rate_limit_wait_seconds_bucket":  true,

	// Mock server metrics.
	"spapi_mock_http_requests_total":                  true,
	"spapi_mock_http_request_duration_seconds_bucket": true,
	"spapi_mock_healthz_up":                           true,

	// Recording rules.
	"spapi:requests:rate5m":               true,
	"spapi:request_errors:rate5m":         true,
	"spapi:requests_throttled:rate5m":     true,
	"spapi:token_refreshes:rate5m":        true,
	"spapi:token_refresh_failures:rate5m": true,
	"spapi:token_cache_hits:ratio5m":      true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
