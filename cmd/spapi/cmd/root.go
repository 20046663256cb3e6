// Package cmd implements the spapi CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/spapi/internal/config"
	"github.com/donaldgifford/spapi/pkg/marketplace"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "spapi",
		Short: "Authenticated client for the Amazon Selling Partner API",
		Long: "spapi exchanges a Login with Amazon refresh token for access tokens\n" +
			"and calls Selling Partner API operations in the configured marketplace.\n\n" +
			"Credentials come from a YAML config file or SPAPI_* environment\n" +
			"variables (SPAPI_REFRESH_TOKEN, SPAPI_CLIENT_ID, SPAPI_CLIENT_SECRET,\n" +
			"SPAPI_MARKETPLACE).",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.String("output", "table", "output format (table, json)")
	flags.String("marketplace", "", "marketplace name, country code, or id")
	flags.Bool("sandbox", false, "use the sandbox hosts")
	flags.String("endpoint", "", "override the resource host (e.g. a local mock server)")
	flags.String("token-url", "", "override the Login with Amazon token endpoint")
	flags.Bool("rate-limit", false, "throttle calls to the documented usage plans")
	flags.String("redis-addr", "", "share access tokens through this Redis instance")
	flags.String("otlp-endpoint", "", "export traces to this OTLP/gRPC collector (host:port)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")

	for _, name := range []string{
		"output", "marketplace", "sandbox", "endpoint", "token-url",
		"rate-limit", "redis-addr", "otlp-endpoint", "log-level", "log-format",
	} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(
		versionCmd(),
		marketplacesCmd(),
		tokenCmd(),
		getCmd(),
		catalogCmd(),
		listingsCmd(),
		sellersCmd(),
		kioskCmd(),
	)
}

func initConfig() {
	viper.SetEnvPrefix("SPAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the optional config file, then overlays environment and
// flag settings from v.
func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if cfg, err = config.Decode(data); err != nil {
			return nil, err
		}
	}

	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *config.Config) error {
	setString := func(key string, dst *string) {
		if v.IsSet(key) && v.GetString(key) != "" {
			*dst = v.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) && v.GetBool(key) {
			*dst = true
		}
	}

	setString("refresh-token", &cfg.Credentials.RefreshToken)
	setString("client-id", &cfg.Credentials.ClientID)
	setString("client-secret", &cfg.Credentials.ClientSecret)
	setString("endpoint", &cfg.API.Endpoint)
	setString("token-url", &cfg.API.TokenURL)
	setString("log-level", &cfg.Logging.Level)
	setString("log-format", &cfg.Logging.Format)
	setBool("sandbox", &cfg.API.Sandbox)
	setBool("rate-limit", &cfg.RateLimit.Enabled)

	if v.IsSet("redis-addr") && v.GetString("redis-addr") != "" {
		cfg.TokenCache.Enabled = true
		cfg.TokenCache.Addr = v.GetString("redis-addr")
	}

	if v.IsSet("otlp-endpoint") && v.GetString("otlp-endpoint") != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = v.GetString("otlp-endpoint")
	}

	if s := v.GetString("marketplace"); s != "" {
		m, err := marketplace.Parse(s)
		if err != nil {
			return err
		}
		cfg.Credentials.Marketplace = m
	}
	return nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
