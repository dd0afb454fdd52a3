package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fittrack/fittrack/internal/auth"
	"github.com/fittrack/fittrack/internal/authz"
	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/csrf"
	"github.com/fittrack/fittrack/internal/foodlookup"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/ratelimit"
	ratelimitstore "github.com/fittrack/fittrack/internal/ratelimit/store"
	"github.com/fittrack/fittrack/internal/server"
	"github.com/fittrack/fittrack/internal/server/handlers"
	"github.com/fittrack/fittrack/internal/store"
)

// application holds all wired components.
type application struct {
	cfg           *config.Config
	logger        observability.Logger
	metrics       *observability.Metrics
	store         store.Store
	limiters      *ratelimit.Registry
	server        *server.Server
	metricsServer *http.Server
}

// newApplication wires the full component graph from configuration.
// The backend mode decides the store, the authenticator and the
// authorizer together, so a mismatch cannot arise at runtime.
func newApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	metrics := observability.NewMetrics("fittrack")
	metrics.SetBuildInfo(version, gitCommit)

	st, authenticator, authorizer, err := buildBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	limiters, err := buildLimiters(cfg, logger)
	if err != nil {
		return nil, err
	}

	csrfManager := csrf.NewManager(
		csrf.WithSecureCookie(cfg.CSRF.SecureCookie),
		csrf.WithCookieMaxAge(int(cfg.CSRF.CookieMaxAge.Duration().Seconds())),
	)

	var tokens *auth.TokenIssuer
	if cfg.Backend.EffectiveMode() != config.ModeDemo {
		tokens = auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL.Duration())
	}

	lookup := foodlookup.NewClient(foodlookup.Config{
		BaseURL:  cfg.FoodLookup.BaseURL,
		Timeout:  cfg.FoodLookup.Timeout.Duration(),
		CacheTTL: cfg.FoodLookup.CacheTTL.Duration(),
		Logger:   observability.Zap(logger),
	})

	h := handlers.New(st, authorizer, csrfManager, tokens, lookup, metrics, logger)

	srv := server.New(cfg.Server.Address, server.Options{
		Logger:        logger,
		Metrics:       metrics,
		Handlers:      h,
		Authenticator: authenticator,
		CSRFManager:   csrfManager,
		Limiters:      limiters,
		ReadTimeout:   cfg.Server.ReadTimeout.Duration(),
		WriteTimeout:  cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:   cfg.Server.IdleTimeout.Duration(),
	})

	app := &application{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		store:    st,
		limiters: limiters,
		server:   srv,
	}

	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		app.metricsServer = &http.Server{
			Addr:        cfg.Server.MetricsAddress,
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// buildBackend creates the store, authenticator and authorizer for
// the effective backend mode.
func buildBackend(cfg *config.Config, logger observability.Logger) (store.Store, auth.Authenticator, authz.Authorizer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch mode := cfg.Backend.EffectiveMode(); mode {
	case config.ModeDemo:
		logger.Info("no backend configured, running in demo mode")
		return store.NewMemoryStore(), auth.NewDemoAuthenticator(), authz.ForMode(authz.ModeDemo), nil

	case config.ModeSingleTenant:
		st, err := store.NewSQLiteStore(ctx, cfg.Backend.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		issuer := auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL.Duration())
		authenticator := auth.NewTokenAuthenticator(issuer, observability.Zap(logger))
		return st, authenticator, authz.ForMode(authz.ModeSingleTenant), nil

	case config.ModeMultiTenant:
		st, err := store.NewPostgresStore(ctx, cfg.Backend.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres backend: %w", err)
		}
		issuer := auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL.Duration())
		authenticator := auth.NewTokenAuthenticator(issuer, observability.Zap(logger))
		return st, authenticator, authz.ForMode(authz.ModeMultiTenant), nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown backend mode %q", mode)
	}
}

// buildLimiters creates the per-preset limiter registry. Defaults are
// overlaid with configured presets; Redis switches enforcement from
// process-local windows to shared counters.
func buildLimiters(cfg *config.Config, logger observability.Logger) (*ratelimit.Registry, error) {
	if !cfg.RateLimit.Enabled {
		factory := func(ratelimit.Config) ratelimit.Limiter {
			return ratelimit.NewNoopLimiter()
		}
		return ratelimit.NewRegistry(factory, ratelimit.DefaultPresets()), nil
	}

	var factory ratelimit.Factory
	if cfg.RateLimit.Redis.Enabled {
		redisCfg := ratelimitstore.DefaultRedisConfig()
		redisCfg.Address = cfg.RateLimit.Redis.Address
		redisCfg.Password = cfg.RateLimit.Redis.Password
		redisCfg.DB = cfg.RateLimit.Redis.DB
		redisCfg.Logger = observability.Zap(logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		redisStore, err := ratelimitstore.NewRedisStore(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect rate limit redis: %w", err)
		}

		factory = func(c ratelimit.Config) ratelimit.Limiter {
			return ratelimit.NewDistributedLimiter(redisStore, c.Limit, c.Window, observability.Zap(logger))
		}
	} else {
		factory = func(c ratelimit.Config) ratelimit.Limiter {
			return ratelimit.NewSlidingWindowLimiter(c.Limit, c.Window,
				ratelimit.WithLogger(observability.Zap(logger)))
		}
	}

	return ratelimit.NewRegistry(factory, effectivePresets(cfg)), nil
}

// effectivePresets overlays configured presets on the defaults.
func effectivePresets(cfg *config.Config) map[string]ratelimit.Config {
	presets := ratelimit.DefaultPresets()
	for name, p := range cfg.RateLimit.Presets {
		presets[name] = ratelimit.Config{Limit: p.Limit, Window: p.Window.Duration()}
	}
	return presets
}

// start launches the API and metrics listeners.
func (a *application) start() {
	go func() {
		if err := a.server.Start(); err != nil {
			a.logger.Fatal("http server failed", observability.Error(err))
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting",
				observability.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server failed", observability.Error(err))
			}
		}()
	}
}

// applyRateLimits reapplies the rate limit presets from a reloaded
// configuration. Other sections require a restart.
func (a *application) applyRateLimits(newCfg *config.Config) {
	a.limiters.Apply(effectivePresets(newCfg))
}

// shutdown stops the listeners and closes the backend.
func (a *application) shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("failed to stop http server gracefully", observability.Error(err))
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop metrics server gracefully", observability.Error(err))
		}
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close backend store", observability.Error(err))
	}
}
