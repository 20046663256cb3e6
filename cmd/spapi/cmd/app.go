package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/spapi/internal/config"
	"github.com/donaldgifford/spapi/pkg/endpoints"
	"github.com/donaldgifford/spapi/pkg/logger"
	"github.com/donaldgifford/spapi/pkg/spapi"
	"github.com/donaldgifford/spapi/pkg/tokencache"
)

// app bundles the session and the operation client built from config.
type app struct {
	session *spapi.Session
	api     *endpoints.Client
	log     *slog.Logger
	redis   *redis.Client
	store   *tokencache.Redis

	shutdownTracing func(context.Context) error
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{log: log}

	if cfg.Tracing.Enabled {
		shutdown, err := setupTracing(context.Background(), cfg.Tracing)
		if err != nil {
			return nil, err
		}
		a.shutdownTracing = shutdown
	}

	httpClient := &http.Client{
		Timeout:   cfg.API.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	tokenOpts := []spapi.TokenOption{
		spapi.WithTokenURL(cfg.API.TokenURL),
		spapi.WithTokenHTTPClient(httpClient),
	}
	if cfg.TokenCache.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.TokenCache.Addr,
			Password: cfg.TokenCache.Password,
			DB:       cfg.TokenCache.DB,
		})
		a.store = tokencache.NewRedis(a.redis, cfg.Credentials.Credentials(),
			tokencache.WithPrefix(cfg.TokenCache.Prefix))
		tokenOpts = append(tokenOpts, spapi.WithTokenStore(a.store))
	}

	opts := []spapi.Option{
		spapi.WithHTTPClient(httpClient),
		spapi.WithLogger(log),
		spapi.WithTokenOptions(tokenOpts...),
	}
	if cfg.API.Sandbox {
		opts = append(opts, spapi.WithSandbox())
	}
	if cfg.API.Endpoint != "" {
		opts = append(opts, spapi.WithEndpoint(cfg.API.Endpoint))
	}

	s, err := spapi.New(cfg.Credentials.Credentials(), opts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.session = s

	var clientOpts []endpoints.Option
	if cfg.RateLimit.Enabled {
		limiter := spapi.NewRateLimiter(cfg.RateLimit.Limits(endpoints.DefaultLimits()))
		clientOpts = append(clientOpts, endpoints.WithRateLimiter(limiter))
	}
	a.api = endpoints.New(s, clientOpts...)

	return a, nil
}

// resetToken drops the held token and the shared cache entry so the next
// call exchanges the refresh token again.
func (a *app) resetToken(ctx context.Context) error {
	a.session.Tokens().Invalidate()
	if a.store == nil {
		return nil
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing shared token: %w", err)
	}
	a.log.Debug("shared access token cleared")
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis client", "error", err)
		}
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracing(ctx); err != nil {
			a.log.Warn("flushing traces", "error", err)
		}
	}
}

// loadApp builds the app from the global flags, environment, and config
// file.
func loadApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format))
}
