package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/contactly/contactly/internal/cache"
	"github.com/contactly/contactly/internal/config"
	"github.com/contactly/contactly/internal/handler"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/middleware"
	"github.com/contactly/contactly/internal/repository"
	"github.com/contactly/contactly/internal/server"
	"github.com/contactly/contactly/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to migrate database: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("database migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("failed to connect to database")
	}
	logger.Info("connected to database")

	// Interfaces stay untyped nil when Redis is disabled.
	var (
		sessions    service.SessionCache
		cacheHealth handler.HealthChecker
		cacheClient *cache.Cache
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cache.Options{SessionTTL: cfg.SessionCacheTTL})
		if err != nil {
			repo.Close()
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return errors.New("failed to connect to redis")
		}
		sessions = cacheClient
		cacheHealth = cacheClient
		logger.Info("connected to Redis", "session_ttl", cfg.SessionCacheTTL)
	} else {
		logger.Info("session cache disabled")
	}

	recorder := metrics.NewInMemory()
	users := service.NewUserService(repo, sessions, recorder, logger)
	contacts := service.NewContactService(repo, recorder, service.PageOptions{
		DefaultSize: cfg.DefaultPageSize,
		MaxSize:     cfg.MaxPageSize,
	})

	r := newRouter(routerDeps{
		Config:   cfg,
		Logger:   logger,
		DB:       repo,
		Cache:    cacheHealth,
		Users:    users,
		Contacts: contacts,
		Metrics:  recorder,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"default_page_size", cfg.DefaultPageSize,
		"max_page_size", cfg.MaxPageSize,
	)

	return srv.Run(ctx)
}

type routerDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       handler.HealthChecker
	Cache    handler.HealthChecker
	Users    *service.UserService
	Contacts *service.ContactService
	Metrics  metrics.Snapshotter
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(deps routerDeps) *chi.Mux {
	cfg := deps.Config
	logger := deps.Logger

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	health := handler.NewHealthHandler(deps.DB, deps.Cache)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Get("/metrics", handler.NewMetricsHandler(deps.Metrics).Metrics)

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger:        logger,
		Authenticator: deps.Users,
	})
	r.Route("/api", func(r chi.Router) {
		handler.APIRoutes(r,
			handler.NewUserHandler(deps.Users, logger),
			handler.NewContactHandler(deps.Contacts, logger),
			requireAuth,
		)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
