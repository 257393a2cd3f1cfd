package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "salespipeline/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"salespipeline/internal/cache"
	"salespipeline/internal/config"
	"salespipeline/internal/db"
	"salespipeline/internal/handler"
	"salespipeline/internal/logging"
	"salespipeline/internal/repository"
	"salespipeline/internal/router"
	"salespipeline/internal/service"
	"salespipeline/internal/validation"
)

// @title Sales Pipeline API
// @version 1.0
// @description Persona-aware sales pipeline dashboard with user and opportunity procedures.
// @host localhost:2022
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB, logger); err != nil {
			logger.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	store := repository.NewStore(gormDB)
	v := validation.New()

	userService := service.NewUserService(store, v, logger)
	opportunityService := service.NewOpportunityService(store, v, logger)
	dashboardService := service.NewDashboardService(store, v, logger)

	var limiter *cache.RateLimiterStore
	if cfg.RedisAddr != "" && cfg.RateLimitPerMinute > 0 {
		cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cacheClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, rate limiter will allow all requests", zap.Error(err))
		}
		cancel()

		limiter = cache.NewRateLimiterStore(cacheClient, cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled", zap.Int("per_minute", cfg.RateLimitPerMinute))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, logger, v, router.Handlers{
		Users:         handler.NewUserHandler(userService),
		Opportunities: handler.NewOpportunityHandler(opportunityService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
	}, limiter)

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
}

// swaggerURL builds the UI address; SwaggerHost may already include a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
