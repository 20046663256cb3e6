package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/spapi/pkg/marketplace"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: amzn1.application-oa2-client.123
  client_secret: secret
  marketplace: US
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "Atzr|abc", cfg.Credentials.RefreshToken)
				assert.Equal(t, "amzn1.application-oa2-client.123", cfg.Credentials.ClientID)
				assert.Equal(t, marketplace.UnitedStates, cfg.Credentials.Marketplace)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: Germany
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, spapi.DefaultTokenURL, cfg.API.TokenURL)
				assert.Equal(t, 30*time.Second, cfg.API.Timeout)
				assert.False(t, cfg.API.Sandbox)
				assert.Empty(t, cfg.API.Endpoint)
				assert.False(t, cfg.RateLimit.Enabled)
				assert.False(t, cfg.TokenCache.Enabled)
				assert.Equal(t, "localhost:6379", cfg.TokenCache.Addr)
				assert.Equal(t, "spapi", cfg.TokenCache.Prefix)
				assert.False(t, cfg.Tracing.Enabled)
				assert.Equal(t, "spapi", cfg.Tracing.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
credentials:
  refresh_token: "${TEST_SPAPI_REFRESH_TOKEN}"
  client_id: id
  client_secret: "${TEST_SPAPI_CLIENT_SECRET}"
  marketplace: "${TEST_SPAPI_MARKETPLACE}"
`,
			envVars: map[string]string{
				"TEST_SPAPI_REFRESH_TOKEN": "Atzr|from-env",
				"TEST_SPAPI_CLIENT_SECRET": "secret123",
				"TEST_SPAPI_MARKETPLACE":   "A1VC38T7YXB528",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "Atzr|from-env", cfg.Credentials.RefreshToken)
				assert.Equal(t, "secret123", cfg.Credentials.ClientSecret)
				assert.Equal(t, marketplace.Japan, cfg.Credentials.Marketplace)
			},
		},
		{
			name: "tracing without endpoint",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: US
tracing:
  enabled: true
`,
			wantErr: "tracing.endpoint is required",
		},
		{
			name: "missing credentials",
			yaml: `
logging:
  level: debug
`,
			wantErr: "credentials.refresh_token is required",
		},
		{
			name: "missing client secret",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  marketplace: US
`,
			wantErr: "credentials.client_secret is required",
		},
		{
			name: "missing marketplace",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
`,
			wantErr: "credentials.marketplace is required",
		},
		{
			name: "unknown marketplace",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: Atlantis
`,
			wantErr: "parsing config YAML",
		},
		{
			name: "invalid rate limit override",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: US
rate_limit:
  enabled: true
  overrides:
    getCatalogItem:
      per_second: 0
`,
			wantErr: "rate_limit.overrides.getCatalogItem.per_second must be positive",
		},
		{
			name: "invalid logging format",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: US
logging:
  format: xml
`,
			wantErr: `logging.format must be one of: text, json (got "xml")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
credentials:
  refresh_token: Atzr|abc
  client_id: id
  client_secret: secret
  marketplace: united_kingdom
api:
  token_url: http://localhost:8089/auth/o2/token
  endpoint: http://localhost:8089
  sandbox: true
  timeout: 5s
rate_limit:
  enabled: true
  overrides:
    searchCatalogItems:
      per_second: 1
      burst: 1
token_cache:
  enabled: true
  addr: redis:6379
  password: pw
  db: 2
  prefix: seller-a
tracing:
  enabled: true
  endpoint: otel-collector:4317
  insecure: true
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, marketplace.UnitedKingdom, cfg.Credentials.Marketplace)
				assert.Equal(t, "http://localhost:8089/auth/o2/token", cfg.API.TokenURL)
				assert.Equal(t, "http://localhost:8089", cfg.API.Endpoint)
				assert.True(t, cfg.API.Sandbox)
				assert.Equal(t, 5*time.Second, cfg.API.Timeout)
				assert.True(t, cfg.RateLimit.Enabled)
				assert.Equal(t, LimitConfig{PerSecond: 1, Burst: 1}, cfg.RateLimit.Overrides["searchCatalogItems"])
				assert.True(t, cfg.TokenCache.Enabled)
				assert.Equal(t, "redis:6379", cfg.TokenCache.Addr)
				assert.Equal(t, 2, cfg.TokenCache.DB)
				assert.Equal(t, "seller-a", cfg.TokenCache.Prefix)
				assert.Equal(t, TracingConfig{
					Enabled:     true,
					Endpoint:    "otel-collector:4317",
					Insecure:    true,
					ServiceName: "spapi",
				}, cfg.Tracing)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			// Set env vars for this test.
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Write YAML to a temp file.
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	ApplyDefaults(cfg)

	err := Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{
		"credentials.refresh_token is required",
		"credentials.client_id is required",
		"credentials.client_secret is required",
		"credentials.marketplace is required",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestCredentialsConfig_Credentials(t *testing.T) {
	t.Parallel()

	c := CredentialsConfig{
		RefreshToken: "Atzr|abc",
		ClientID:     "id",
		ClientSecret: "secret",
		Marketplace:  marketplace.Brazil,
	}

	got := c.Credentials()
	assert.Equal(t, spapi.Credentials{
		RefreshToken: "Atzr|abc",
		ClientID:     "id",
		ClientSecret: "secret",
		Marketplace:  marketplace.Brazil,
	}, got)
	assert.NoError(t, got.Validate())
}

func TestRateLimitConfig_Limits(t *testing.T) {
	t.Parallel()

	defaults := map[string]spapi.Limit{
		"getCatalogItem":     {PerSecond: 2, Burst: 2},
		"searchCatalogItems": {PerSecond: 2, Burst: 2},
	}
	r := RateLimitConfig{
		Enabled:   true,
		Overrides: map[string]LimitConfig{"getCatalogItem": {PerSecond: 0.5, Burst: 1}},
	}

	got := r.Limits(defaults)
	assert.Equal(t, spapi.Limit{PerSecond: 0.5, Burst: 1}, got["getCatalogItem"])
	assert.Equal(t, spapi.Limit{PerSecond: 2, Burst: 2}, got["searchCatalogItems"])
	assert.Equal(t, spapi.Limit{PerSecond: 2, Burst: 2}, defaults["getCatalogItem"])
}
