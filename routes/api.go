package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/watchlist-screener/app/controllers"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Screening routes
		v1.GET("/search", searchController.Search)
		v1.POST("/screen/batch", searchController.ScreenBatch)
		v1.GET("/entities/:id", searchController.GetEntity)

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/refresh", adminController.TriggerRefresh)
			admin.GET("/similarity", adminController.Similarity)
		}
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, adminController *controllers.AdminController) {
	// Root health check
	router.GET("/healthz", adminController.HealthCheck)

	// Readiness check
	router.GET("/ready", adminController.HealthCheck)

	// Liveness check
	router.GET("/live", adminController.HealthCheck)
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	// Thiết lập middleware
	setupMiddleware(router)

	// Thiết lập các loại routes
	SetupWebRoutes(router)
	SetupHealthRoutes(router, adminController)
	SetupAPIRoutes(router, searchController, adminController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// Logger middleware
	router.Use(gin.Logger())
}
