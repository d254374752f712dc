package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes (nếu cần trong tương lai)
func SetupWebRoutes(router *gin.Engine) {
	// Web routes group
	web := router.Group("/")
	{
		// Home page
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Watchlist Screening Service",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		// API documentation
		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Watchlist Screening API v1",
				"endpoints": map[string]string{
					"search":     "GET /api/v1/search?name=...&min_match=&limit=&trace=",
					"batch":      "POST /api/v1/screen/batch",
					"entity":     "GET /api/v1/entities/:id",
					"stats":      "GET /api/v1/admin/stats",
					"refresh":    "POST /api/v1/admin/refresh",
					"similarity": "GET /api/v1/admin/similarity?a=&b=",
					"health":     "GET /healthz",
				},
			})
		})
	}
}
