package responses

import (
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/trace"
)

// SearchResponse kết quả sàng lọc một truy vấn
type SearchResponse struct {
	Query            string                `json:"query"`               // Tên đã truy vấn
	Total            int                   `json:"total"`               // Số kết quả trả về
	Cancelled        bool                  `json:"cancelled,omitempty"` // Tìm kiếm bị hủy giữa chừng
	CacheHit         bool                  `json:"cache_hit,omitempty"` // Kết quả lấy từ cache
	ProcessingTimeMs int64                 `json:"processing_time_ms"`  // Thời gian xử lý (ms)
	Results          []models.SearchResult `json:"results"`             // Kết quả xếp hạng giảm dần
	Trace            *trace.Trace          `json:"trace,omitempty"`     // Trace chấm điểm nếu yêu cầu
}

// BatchScreenItem kết quả cho một mục trong batch
type BatchScreenItem struct {
	Query   string                `json:"query"`            // Tên đã truy vấn
	Total   int                   `json:"total"`            // Số kết quả
	Results []models.SearchResult `json:"results"`          // Kết quả xếp hạng
	Error   string                `json:"error,omitempty"`  // Lỗi riêng của mục này
}

// BatchScreenResponse kết quả sàng lọc hàng loạt, giữ nguyên thứ tự input
type BatchScreenResponse struct {
	Items            []BatchScreenItem `json:"items"`              // Kết quả từng mục
	ProcessingTimeMs int64             `json:"processing_time_ms"` // Tổng thời gian xử lý (ms)
}

// AdminStatsResponse thống kê vận hành
type AdminStatsResponse struct {
	TotalEntities int                    `json:"total_entities"` // Tổng số entity trong index
	BySource      map[string]int         `json:"by_source"`      // Số entity theo danh sách nguồn
	ByType        map[string]int         `json:"by_type"`        // Số entity theo loại
	IndexVersion  uint64                 `json:"index_version"`  // Phiên bản index hiện tại
	LastRefresh   string                 `json:"last_refresh"`   // Lần nạp danh sách gần nhất
	UptimeSeconds int64                  `json:"uptime_seconds"` // Thời gian hoạt động (giây)
	MemoryUsage   map[string]interface{} `json:"memory_usage"`   // Bộ nhớ tiến trình
}

// SimilarityResponse bức tranh điểm số đầy đủ cho một cặp chuỗi
type SimilarityResponse struct {
	A                   string   `json:"a"`                    // Chuỗi gốc thứ nhất
	B                   string   `json:"b"`                    // Chuỗi gốc thứ hai
	NormalizedA         string   `json:"normalized_a"`         // Sau chuẩn hóa
	NormalizedB         string   `json:"normalized_b"`         // Sau chuẩn hóa
	TokensA             []string `json:"tokens_a"`             // Token thứ nhất
	TokensB             []string `json:"tokens_b"`             // Token thứ hai
	SoundexA            string   `json:"soundex_a"`            // Mã ngữ âm thứ nhất
	SoundexB            string   `json:"soundex_b"`            // Mã ngữ âm thứ hai
	JaroWinkler         float64  `json:"jaro_winkler"`         // JW cơ bản trên chuỗi chuẩn hóa
	TokenScore          float64  `json:"token_score"`          // JW kèm phạt độ dài và khác chữ cái đầu
	BestPair            float64  `json:"best_pair"`            // Điểm ghép cặp token tốt nhất
	Combination         float64  `json:"combination"`          // Điểm qua các biến thể gộp từ
	LevenshteinDistance int      `json:"levenshtein_distance"` // Khoảng cách chỉnh sửa
	LevenshteinRatio    float64  `json:"levenshtein_ratio"`    // Tỷ lệ tương đồng theo Levenshtein
}

// RefreshResponse kết quả nạp lại danh sách
type RefreshResponse struct {
	Success          bool           `json:"success"`            // Nạp lại có thành công không
	TotalEntities    int            `json:"total_entities"`     // Số entity sau khi nạp
	BySource         map[string]int `json:"by_source"`          // Số entity theo nguồn
	ProcessingTimeMs int64          `json:"processing_time_ms"` // Thời gian xử lý (ms)
	Message          string         `json:"message"`            // Thông báo
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status        string `json:"status"`         // Trạng thái (ok, degraded)
	Timestamp     string `json:"timestamp"`      // Thời gian kiểm tra
	Uptime        string `json:"uptime"`         // Thời gian hoạt động
	IndexedTotal  int    `json:"indexed_total"`  // Số entity sẵn sàng tra cứu
	IndexVersion  uint64 `json:"index_version"`  // Phiên bản index
	SourcesLoaded int    `json:"sources_loaded"` // Số danh sách nguồn đã nạp
}
