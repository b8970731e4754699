package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/matterlog/internal/adapter/api"
	"github.com/V4T54L/matterlog/internal/adapter/api/middleware"
	"github.com/V4T54L/matterlog/internal/adapter/api/web"
	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	"github.com/V4T54L/matterlog/internal/adapter/ratelimit"
	"github.com/V4T54L/matterlog/internal/adapter/repository/fs"
	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/pkg/config"
	"github.com/V4T54L/matterlog/internal/pkg/logger"
	"github.com/V4T54L/matterlog/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Start Admin and Metrics Server ---
	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: api.NewAdminRouter(prometheus.DefaultGatherer, logger),
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Search Rate Limiter ---
	var limiter domain.RateLimiter = ratelimit.NewLocalLimiter(cfg.SearchRateLimit, cfg.SearchRateBurst)
	if cfg.RedisAddr != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			logger.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		redisLimiter := ratelimit.NewRedisLimiter(redisClient, cfg.SearchRateLimit, cfg.SearchRateBurst, limiter, logger, m)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, will rate limit in-process until it recovers", "error", err)
		}
		go redisLimiter.StartHealthCheck(ctx, cfg.RedisHealthInterval)
		limiter = redisLimiter
	}

	// --- Initialize Store and Use Cases ---
	if _, err := os.Stat(cfg.LogsPath); err != nil {
		logger.Warn("logs path is not readable yet, serving an empty chatroom list", "path", cfg.LogsPath, "error", err)
	}
	store := fs.NewLogStore(cfg.LogsPath)
	browseUseCase := usecase.NewBrowseUseCase(store, cfg.BaseURL)
	searchUseCase := usecase.NewSearchUseCase(store, m)

	templates, err := web.Templates()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// --- Initialize Viewer Server ---
	router := api.NewRouter(logger, browseUseCase, searchUseCase, limiter, templates, m)
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.ProxyHeaders(cfg.ProxyLevel)(middleware.Logging(logger)(router)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("starting viewer server", "addr", server.Addr, "logs_path", cfg.LogsPath, "proxy_level", cfg.ProxyLevel)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("viewer server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("viewer server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
