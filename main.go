package main

import (
	"context"
	"log"

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

func main() {
	// 1. Load configuration
	cfg := config.Load()

	// 2. Khởi tạo logger
	logger := initLogger(cfg.Server.Env)
	defer logger.Sync()

	logger.Info("Starting Watchlist Screening Service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// 3. Khởi tạo normalizer và scorer
	entityNormalizer, err := normalizer.NewEntityNormalizer(cfg.Match, logger)
	if err != nil {
		logger.Fatal("Failed to initialize normalizer", zap.Error(err))
	}
	scorer, err := matcher.NewScorer(cfg.Match, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scorer", zap.Error(err))
	}

	// 4. Khởi tạo index
	entityIndex := index.New()

	// 5. Khởi tạo services
	searchService, err := services.NewSearchService(entityIndex, entityNormalizer, scorer, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize search service", zap.Error(err))
	}
	refreshService, err := services.NewRefreshService(entityIndex, entityNormalizer, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize refresh service", zap.Error(err))
	}
	adminService := services.NewAdminService(entityIndex, refreshService, entityNormalizer, scorer, logger)

	// 6. Nạp danh sách lần đầu
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.InitialLoad {
		if _, err := refreshService.Refresh(ctx); err != nil {
			// Server vẫn chạy degraded, /healthz báo index rỗng
			logger.Warn("Initial list load failed", zap.Error(err))
		}
	}

	// 7. Refresh định kỳ
	go refreshService.Run(ctx)

	// 8. Khởi tạo controllers
	searchController := controllers.NewSearchController(searchService, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	// 9. Khởi tạo Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 10. Thiết lập routes
	routes.SetupAllRoutes(router, searchController, adminController)

	// 11. Khởi động server
	logger.Info("Watchlist Screening Service starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// initLogger khởi tạo structured logger
func initLogger(env string) *zap.Logger {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	logger, err := config.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}
