// Package config handles loading and validating the spapi configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/spapi/pkg/marketplace"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

// Config is the top-level configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	API         APIConfig         `yaml:"api"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	TokenCache  TokenCacheConfig  `yaml:"token_cache"`
	Tracing     TracingConfig     `yaml:"tracing"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CredentialsConfig holds the Login with Amazon application credentials and
// the marketplace requests are scoped to. The marketplace accepts a name,
// country code, or marketplace id.
type CredentialsConfig struct {
	RefreshToken string                  `yaml:"refresh_token"`
	ClientID     string                  `yaml:"client_id"`
	ClientSecret string                  `yaml:"client_secret"`
	Marketplace  marketplace.Marketplace `yaml:"marketplace"`
}

// Credentials converts to spapi.Credentials.
func (c *CredentialsConfig) Credentials() spapi.Credentials {
	return spapi.Credentials{
		RefreshToken: c.RefreshToken,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Marketplace:  c.Marketplace,
	}
}

// APIConfig defines the token issuer and resource host settings.
type APIConfig struct {
	TokenURL string        `yaml:"token_url"`
	Endpoint string        `yaml:"endpoint"` // overrides regional routing
	Sandbox  bool          `yaml:"sandbox"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RateLimitConfig defines client-side throttling.
type RateLimitConfig struct {
	Enabled   bool                   `yaml:"enabled"`
	Overrides map[string]LimitConfig `yaml:"overrides"` // keyed by operation name
}

// LimitConfig overrides one operation's usage plan.
type LimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TokenCacheConfig defines the shared Redis token cache.
type TokenCacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// TracingConfig defines OTLP trace export.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // host:port of an OTLP/gRPC collector
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, performing environment variable
// substitution and validation.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Decode expands environment variables and unmarshals data without applying
// defaults or validating, for callers that overlay further settings first.
func Decode(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset optional fields.
func ApplyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyTokenCacheDefaults(&cfg.TokenCache)
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = "spapi"
	}
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.TokenURL == "" {
		a.TokenURL = spapi.DefaultTokenURL
	}
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
}

func applyTokenCacheDefaults(c *TokenCacheConfig) {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "spapi"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Validate reports every missing or inconsistent field.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Credentials.RefreshToken == "" {
		errs = append(errs, fmt.Errorf("credentials.refresh_token is required"))
	}
	if cfg.Credentials.ClientID == "" {
		errs = append(errs, fmt.Errorf("credentials.client_id is required"))
	}
	if cfg.Credentials.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("credentials.client_secret is required"))
	}
	if !cfg.Credentials.Marketplace.Valid() {
		errs = append(errs, fmt.Errorf("credentials.marketplace is required"))
	}

	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}

	for op, l := range cfg.RateLimit.Overrides {
		if l.PerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.overrides.%s.per_second must be positive", op))
		}
		if l.Burst < 0 {
			errs = append(errs, fmt.Errorf("rate_limit.overrides.%s.burst must not be negative", op))
		}
	}

	if cfg.TokenCache.DB < 0 {
		errs = append(errs, fmt.Errorf("token_cache.db must not be negative"))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

// Limits merges the overrides into defaults.
func (r *RateLimitConfig) Limits(defaults map[string]spapi.Limit) map[string]spapi.Limit {
	out := make(map[string]spapi.Limit, len(defaults)+len(r.Overrides))
	for op, l := range defaults {
		out[op] = l
	}
	for op, l := range r.Overrides {
		out[op] = spapi.Limit{PerSecond: l.PerSecond, Burst: l.Burst}
	}
	return out
}
