package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/requests"
	"github.com/watchlist-screener/app/responses"
	"github.com/watchlist-screener/app/services"
	"github.com/watchlist-screener/internal/index"
)

// SearchController controller xử lý các request sàng lọc
type SearchController struct {
	searchService *services.SearchService
	logger        *zap.Logger
}

// NewSearchController tạo mới SearchController
func NewSearchController(searchService *services.SearchService, logger *zap.Logger) *SearchController {
	return &SearchController{
		searchService: searchService,
		logger:        logger,
	}
}

// Search sàng lọc một truy vấn đơn lẻ qua query params
func (sc *SearchController) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	resp, err := sc.searchService.Search(c.Request.Context(), req)
	if err != nil {
		sc.renderSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ScreenBatch sàng lọc nhiều truy vấn trong một request
func (sc *SearchController) ScreenBatch(c *gin.Context) {
	var req requests.BatchScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	if sc.searchService.IndexSize() == 0 {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "INDEX_EMPTY",
			Message: "Danh sách trừng phạt chưa được nạp, thử lại sau",
		})
		return
	}

	c.JSON(http.StatusOK, sc.searchService.ScreenBatch(c.Request.Context(), req))
}

// GetEntity tra cứu một entity theo id
func (sc *SearchController) GetEntity(c *gin.Context) {
	id := c.Param("id")
	entity, ok := sc.searchService.GetEntity(id)
	if !ok {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "ENTITY_NOT_FOUND",
			Message: "Không tìm thấy entity: " + id,
		})
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (sc *SearchController) renderSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, index.ErrEmptyIndex):
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:   "INDEX_EMPTY",
			Message: "Danh sách trừng phạt chưa được nạp, thử lại sau",
		})
	case errors.Is(err, services.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_QUERY",
			Message: err.Error(),
		})
	default:
		sc.logger.Error("lỗi sàng lọc", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEARCH_ERROR",
			Message: "Lỗi sàng lọc: " + err.Error(),
		})
	}
}
