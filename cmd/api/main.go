package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/controllers"
	"github.com/watchlist-screener/app/services"
	"github.com/watchlist-screener/internal/index"
	"github.com/watchlist-screener/internal/matcher"
	"github.com/watchlist-screener/internal/normalizer"
	"github.com/watchlist-screener/routes"
)

// Entry point with graceful shutdown. Unlike the root binary it drains
// in-flight screening requests before exiting, so it is the one to run
// behind a load balancer.
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.Server.Env)
	defer logger.Sync()

	logger.Info("Starting Watchlist Screening API...",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize matching pipeline
	entityNormalizer, err := normalizer.NewEntityNormalizer(cfg.Match, logger)
	if err != nil {
		logger.Fatal("Failed to initialize normalizer", zap.Error(err))
	}
	scorer, err := matcher.NewScorer(cfg.Match, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scorer", zap.Error(err))
	}
	entityIndex := index.New()

	// Initialize services
	searchService, err := services.NewSearchService(entityIndex, entityNormalizer, scorer, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize search service", zap.Error(err))
	}
	refreshService, err := services.NewRefreshService(entityIndex, entityNormalizer, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize refresh service", zap.Error(err))
	}
	adminService := services.NewAdminService(entityIndex, refreshService, entityNormalizer, scorer, logger)

	// Initialize controllers
	searchController := controllers.NewSearchController(searchService, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, searchController, adminController)

	// Load the lists before accepting traffic; a failed load keeps the
	// server up in degraded mode and /healthz reports the empty index.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.InitialLoad {
		if _, err := refreshService.Refresh(ctx); err != nil {
			logger.Warn("Initial list load failed, serving degraded", zap.Error(err))
		}
	}
	go refreshService.Run(ctx)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Give outstanding requests a deadline for completion
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown with requests in flight", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
