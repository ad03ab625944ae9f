package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/zedcars/zedcars/internal/activity"
	"github.com/zedcars/zedcars/internal/analytics"
	analytichttp "github.com/zedcars/zedcars/internal/analytics/http"
	"github.com/zedcars/zedcars/internal/app"
	"github.com/zedcars/zedcars/internal/auth"
	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/chatbot"
	"github.com/zedcars/zedcars/internal/observability"
	"github.com/zedcars/zedcars/internal/platform/db"
	"github.com/zedcars/zedcars/internal/sales"
	"github.com/zedcars/zedcars/internal/testdrive"
	"github.com/zedcars/zedcars/report"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
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

	activityLog := activity.NewLogger(pool, logger)

	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authMiddleware := auth.NewMiddleware(tokens)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, authMiddleware, activityLog, cfg.IsProduction())

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, activityLog, authMiddleware)

	analyticsRepo := analytics.NewRepository(pool)
	analyticsCache := analytics.NewCache(redisClient, cfg.CacheTTL)
	analyticsService := analytics.NewService(analyticsRepo, analyticsCache)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, catalogService, analyticsService, logger)
	salesHandler := sales.NewHandler(logger, salesService, activityLog, authMiddleware)

	testDriveRepo := testdrive.NewRepository(pool)
	testDriveService := testdrive.NewService(testDriveRepo, catalogService)
	testDriveHandler := testdrive.NewHandler(logger, testDriveService, activityLog, authMiddleware)

	reportClient := report.NewClient(cfg.GotenbergURL)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService, reportClient, activityLog, authMiddleware)

	activityHandler := activity.NewHandler(logger, activityLog, authMiddleware)

	chatbotService := chatbot.NewService(catalogService)
	chatbotHandler := chatbot.NewHandler(logger, chatbotService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		SalesHandler:     salesHandler,
		TestDriveHandler: testDriveHandler,
		AnalyticsHandler: analyticsHandler,
		ActivityHandler:  activityHandler,
		ChatbotHandler:   chatbotHandler,
		Metrics:          metrics,
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
