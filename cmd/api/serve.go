// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/templates/storefront/internal/admin"
	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/category"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/health"
	"github.com/carterperez-dev/templates/storefront/internal/media"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
	"github.com/carterperez-dev/templates/storefront/internal/notify"
	"github.com/carterperez-dev/templates/storefront/internal/order"
	"github.com/carterperez-dev/templates/storefront/internal/product"
	"github.com/carterperez-dev/templates/storefront/internal/server"
	"github.com/carterperez-dev/templates/storefront/internal/user"
)

const (
	drainDelay = 5 * time.Second

	authRequestsPerMinute = 10
	authBurst             = 5
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func runServe(parent context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	logger.Info("starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App, logger)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := core.MigrateUp(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting is process-local", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		logger.Info("redis connected", zap.Int("pool_size", cfg.Redis.PoolSize))
	}

	signer, err := auth.NewSigner(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token signer ready",
		zap.String("algorithm", "ES256"),
		zap.String("key_id", signer.KeyID()),
	)

	images, err := media.NewStore(cfg.Media, logger)
	if err != nil {
		return err
	}

	notifier, err := notify.New(cfg.Notify, logger)
	if err != nil {
		return err
	}

	userSvc := user.NewService(user.NewRepository(db.DB), logger)
	authSvc := auth.NewService(signer, userSvc, logger)
	categorySvc := category.NewService(category.NewRepository(db.DB), logger)
	productSvc := product.NewService(product.NewRepository(db.DB), images, logger)
	orderSvc := order.NewService(order.ServiceConfig{
		Store:      order.NewStore(db.DB),
		Notifier:   notifier,
		Buyers:     userSvc,
		OwnerEmail: cfg.Notify.OwnerEmail,
		Retry: core.RetryPolicy{
			Attempts: cfg.Order.RetryAttempts,
			Delay:    cfg.Order.RetryDelay,
		},
		Logger: logger,
		Tracer: telemetry.Tracer,
	})

	deps := []health.Dependency{{Name: "database", Checker: db}}
	pools := []admin.NamedPool{{Name: "database", Pool: db}}
	if rdb != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: rdb, Optional: true})
		pools = append(pools, admin.NamedPool{Name: "redis", Pool: rdb})
	}
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(rdb.Client(), middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			Skip:   isProbe,
			Logger: logger,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", signer.JWKS())
	router.Mount(images.Prefix(), images.Handler())

	authLimiter := middleware.NewRateLimiter(rdb.Client(), middleware.RateLimitConfig{
		Name:   "auth",
		Limit:  middleware.PerMinute(authRequestsPerMinute, authBurst),
		Key:    middleware.KeyByIPAndEndpoint,
		Logger: logger,
	}).Handler

	authenticator := middleware.Authenticator(signer)
	adminOnly := middleware.RequireAdmin

	router.Route(cfg.Server.APIPrefix, func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authLimiter)
		category.NewHandler(categorySvc).RegisterRoutes(r, authenticator, adminOnly)
		product.NewHandler(productSvc, images.MaxBytes()).
			RegisterRoutes(r, authenticator, adminOnly)
		order.NewHandler(orderSvc).RegisterRoutes(r, authenticator)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticator, adminOnly)
	})

	router.Route("/v1", func(r chi.Router) {
		admin.NewHandler(admin.NewCountsRepository(db.DB), logger, pools...).
			RegisterRoutes(r, authenticator, adminOnly)
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout+drainDelay,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx, drainDelay)
	})

	runErr := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := telemetry.Shutdown(closeCtx); err != nil {
		logger.Error("telemetry shutdown error", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		logger.Error("database close error", zap.Error(err))
	}

	logger.Info("application stopped")
	return runErr
}

// isProbe keeps orchestrator health checks out of client rate limits.
func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}
