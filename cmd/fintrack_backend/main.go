package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/handlers"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/SscSPs/fintrack_backend/internal/platform/bootstrap"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/platform/logging"
	"github.com/SscSPs/fintrack_backend/internal/platform/metrics"
	"github.com/SscSPs/fintrack_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title FinTrack Backend API
// @version 1.0
// @description Currency conversion and financial aggregation API.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.InitLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	rt, err := bootstrap.Open(ctx, cfg, logger, database.DefaultMigrationsPath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rt.Close()

	m := metrics.NewDefault()
	container := services.NewServiceContainer(cfg, rt.Repos, rt.Provider, m)

	if err := container.Currency.InitializeStaticData(ctx); err != nil {
		logger.Error("Failed to seed currencies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, m); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("rate_store", cfg.RateStore),
		slog.String("rate_provider", cfg.RateProvider))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
