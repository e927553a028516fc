package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodstore/internal/adapter/api"
	"foodstore/internal/adapter/api/handler"
	apimiddleware "foodstore/internal/adapter/api/middleware"
	"foodstore/internal/adapter/api/router"
	"foodstore/internal/adapter/repository"
	"foodstore/internal/infrastructure/cache"
	"foodstore/internal/infrastructure/firebase"
	"foodstore/internal/infrastructure/token"
	"foodstore/internal/infrastructure/websocket"
	"foodstore/internal/session"
	"foodstore/internal/usecase"
	"foodstore/pkg/config"
	"foodstore/pkg/logger"
	"foodstore/pkg/response"
)

const serviceName = "foodstore-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}
	defer clients.Firestore.Close()

	productRepo := repository.NewFirestoreProductRepository(clients.Firestore)
	userRepo := repository.NewFirestoreUserRepository(clients.Firestore)
	categoryRepo := repository.NewFirestoreCategoryRepository(clients.Firestore)

	checks := map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			_, err := clients.Firestore.Collection("products").Limit(1).Documents(ctx).GetAll()
			return err
		},
	}

	var productCache usecase.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled: %v", err)
		} else {
			defer redisCache.Close()
			productCache = redisCache
			checks["redis"] = redisCache.Ping
			logger.Info("Caching product reads in redis (ttl %s)", cfg.CacheTTL)
		}
	}

	jwtService := token.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	verifier := session.Chain{jwtService, clients.Auth}
	hub := websocket.NewHub()

	authUseCase := usecase.NewAuthUseCase(userRepo, clients.Auth, jwtService)
	productUseCase := usecase.NewProductUseCase(productRepo, productCache, usecase.ProductUseCaseConfig{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		ExactTotals:     cfg.ExactTotals,
	})
	reviewUseCase := usecase.NewReviewUseCase(productRepo, productCache, hub)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, productCache)

	handler.Setup(authUseCase, productUseCase, reviewUseCase, categoryUseCase, hub)
	handler.SetupHealthHandler(checks)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := apimiddleware.NewMetrics(registry, serviceName)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.WithFields(map[string]interface{}{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}).Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware)

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	router.Setup(e, authMiddleware, router.Options{AuthRateLimit: cfg.AuthRateLimit})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
