// Command server runs the storefront HTTP API.
//
//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart, order and payment confirmation API.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/lbsshop/storefront-api/internal/api"
	"github.com/lbsshop/storefront-api/internal/api/handler"
	"github.com/lbsshop/storefront-api/internal/api/metrics"
	"github.com/lbsshop/storefront-api/internal/api/middleware"
	"github.com/lbsshop/storefront-api/internal/core/service"
	"github.com/lbsshop/storefront-api/internal/infrastructure/db/redis"
	"github.com/lbsshop/storefront-api/internal/infrastructure/payment"
	"github.com/lbsshop/storefront-api/internal/infrastructure/security"
	"github.com/lbsshop/storefront-api/internal/infrastructure/storage"
	"github.com/lbsshop/storefront-api/internal/pkg/config"
	"github.com/lbsshop/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Variables already set in the environment win over .env.
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger.For("storage"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	recorder := metrics.Recorder{}
	tokens := security.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(store.Users, security.NewBcryptHasher(0), tokens, cfg.TokenTTL, recorder, logger.For("auth"))

	if cfg.Auth.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin account")
		}
	}

	orderService := service.NewOrderService(
		store.Orders,
		store.Carts,
		store.Products,
		payment.NewQRIssuer(cfg.JWTSecret),
		recorder,
		service.OrderOptions{StrictPricing: cfg.Orders.StrictPricing},
		logger.For("orders"),
	)

	var limiter echomiddleware.RateLimiterStore
	if store.Redis != nil {
		limiter = redis.NewLoginLimiter(store.Redis, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger.For("ratelimit"))
	} else {
		limiter = middleware.NewMemoryLimiterStore(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	}

	pingers := make(map[string]handler.Pinger, len(store.Pingers))
	for name, p := range store.Pingers {
		pingers[name] = p
	}

	e := api.NewRouter(api.Dependencies{
		Log:            logger.For("http"),
		Tokens:         tokens,
		Auth:           authService,
		Users:          service.NewUserService(store.Users, logger.For("users")),
		Catalog:        service.NewCatalogService(store.Products, logger.For("catalog")),
		Categories:     service.NewCategoryService(store.Categories, logger.For("categories")),
		Carts:          service.NewCartService(store.Carts),
		Orders:         orderService,
		Stats:          service.NewStatsService(store.Users, store.Products, store.Orders),
		LoginLimiter:   limiter,
		Pingers:        pingers,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
