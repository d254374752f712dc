package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/responses"
	"github.com/watchlist-screener/app/services"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetStats thống kê index và tiến trình
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.adminService.Stats())
}

// TriggerRefresh nạp lại toàn bộ danh sách ngay lập tức
func (ac *AdminController) TriggerRefresh(c *gin.Context) {
	result, err := ac.adminService.TriggerRefresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrRefreshInProgress) {
			c.JSON(http.StatusConflict, responses.ErrorResponse{
				Error:   "REFRESH_IN_PROGRESS",
				Message: "Một lần nạp khác đang chạy",
			})
			return
		}
		ac.logger.Error("Lỗi nạp lại danh sách", zap.Error(err))
		c.JSON(http.StatusBadGateway, responses.ErrorResponse{
			Error:   "REFRESH_FAILED",
			Message: "Lỗi nạp lại danh sách: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Similarity debug điểm tương đồng cho một cặp chuỗi
func (ac *AdminController) Similarity(c *gin.Context) {
	a := c.Query("a")
	b := c.Query("b")
	if a == "" || b == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "MISSING_PARAMS",
			Message: "Cần cả hai tham số a và b",
		})
		return
	}
	c.JSON(http.StatusOK, ac.adminService.Similarity(a, b))
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AdminController) HealthCheck(c *gin.Context) {
	health := ac.adminService.Health()
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
