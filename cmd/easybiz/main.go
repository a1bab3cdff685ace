package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/easybiz-pos/easybiz-pos/internal/app"
	"github.com/easybiz-pos/easybiz-pos/internal/auth"
	"github.com/easybiz-pos/easybiz-pos/internal/billing"
	"github.com/easybiz-pos/easybiz-pos/internal/catalog"
	"github.com/easybiz-pos/easybiz-pos/internal/customers"
	"github.com/easybiz-pos/easybiz-pos/internal/observability"
	"github.com/easybiz-pos/easybiz-pos/internal/platform/cache"
	"github.com/easybiz-pos/easybiz-pos/internal/platform/db"
	"github.com/easybiz-pos/easybiz-pos/internal/rbac"
	"github.com/easybiz-pos/easybiz-pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	snapshot := cache.NewSnapshot(redisClient, cfg.CacheTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	gate := rbac.Middleware{Tokens: tokens, CookieName: cfg.CookieName, Logger: logger}

	rbacRepo := rbac.NewRepository(pool)
	rbacService := rbac.NewService(rbacRepo, snapshot, logger)
	rbacHandler := rbac.NewHandler(logger, rbacService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, cfg.PaymentGatewayURL)
	billingHandler := billing.NewHandler(logger, billingService, gate)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, rbacService, billingService, tokens)
	authHandler := auth.NewHandler(logger, authService, cfg.CookieName, cfg.IsProduction())

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, gate)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService, gate)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		AuthHandler:      authHandler,
		RBACHandler:      rbacHandler,
		BillingHandler:   billingHandler,
		CatalogHandler:   catalogHandler,
		CustomersHandler: customersHandler,
		JobHandler:       jobHandler,
		Gate:             gate,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
