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

	"github.com/fieldops/reporte/internal/app"
	"github.com/fieldops/reporte/internal/orders"
	"github.com/fieldops/reporte/internal/platform/db"
	"github.com/fieldops/reporte/internal/report"
	"github.com/fieldops/reporte/internal/stats"
	statshttp "github.com/fieldops/reporte/internal/stats/http"
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

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("load report timezone", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := orders.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	cache := stats.NewCache(redisClient, cfg.CacheTTL)
	if err := cache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, cache, logger)
	ordersHandler := orders.NewHandler(ordersService, logger)

	statsService := stats.NewService(ordersRepo, cache, loc)
	statsHandler := statshttp.NewHandler(logger, statsService)

	rasterizer := report.NewRasterizer(report.RasterConfig{
		Timeout:   cfg.ChromeTimeout,
		RemoteURL: cfg.ChromeURL,
		NoSandbox: !cfg.ChromeSandbox,
	}, logger)
	defer func() {
		if err := rasterizer.Close(); err != nil {
			logger.Warn("rasterizer close", slog.Any("error", err))
		}
	}()

	reportService := report.NewService(statsService, rasterizer, logger)
	reportHandler := report.NewHandler(logger, reportService, loc)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		OrdersHandler: ordersHandler,
		StatsHandler:  statsHandler,
		ReportHandler: reportHandler,
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
