package services

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/app/responses"
	"github.com/watchlist-screener/internal/index"
	"github.com/watchlist-screener/internal/matcher"
	"github.com/watchlist-screener/internal/normalizer"
	"github.com/watchlist-screener/internal/phonetic"
)

var allSources = []models.SourceList{
	models.SourceUSOFAC,
	models.SourceUSCSL,
	models.SourceEUCSL,
	models.SourceUKCSL,
}

var allTypes = []models.EntityType{
	models.EntityPerson,
	models.EntityBusiness,
	models.EntityOrganization,
	models.EntityVessel,
	models.EntityAircraft,
	models.EntityUnknown,
}

// AdminService service thống kê vận hành, debug tương đồng và kích
// hoạt nạp lại danh sách
type AdminService struct {
	index      *index.Index
	refresh    *RefreshService
	normalizer *normalizer.EntityNormalizer
	sim        *matcher.Similarity
	logger     *zap.Logger
	startTime  time.Time
}

// NewAdminService tạo mới AdminService
func NewAdminService(idx *index.Index, refresh *RefreshService, norm *normalizer.EntityNormalizer, scorer *matcher.Scorer, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		index:      idx,
		refresh:    refresh,
		normalizer: norm,
		sim:        scorer.Similarity(),
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Stats thống kê index hiện tại theo nguồn và theo loại entity
func (as *AdminService) Stats() *responses.AdminStatsResponse {
	bySource := make(map[string]int, len(allSources))
	for _, src := range allSources {
		if n := len(as.index.GetBySource(src)); n > 0 {
			bySource[string(src)] = n
		}
	}
	byType := make(map[string]int, len(allTypes))
	for _, t := range allTypes {
		if n := len(as.index.GetByType(t)); n > 0 {
			byType[string(t)] = n
		}
	}

	lastRefresh := ""
	if st := as.refresh.LastRefresh(); st != nil {
		lastRefresh = st.RefreshedAt.Format(time.RFC3339)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &responses.AdminStatsResponse{
		TotalEntities: as.index.Size(),
		BySource:      bySource,
		ByType:        byType,
		IndexVersion:  as.index.Version(),
		LastRefresh:   lastRefresh,
		UptimeSeconds: int64(time.Since(as.startTime).Seconds()),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}
}

// Similarity chấm một cặp chuỗi qua từng tầng thuật toán, dùng để
// giải thích điểm số cho compliance.
func (as *AdminService) Similarity(a, b string) *responses.SimilarityResponse {
	tokensA, _ := as.normalizer.NormalizeName(a, "")
	tokensB, _ := as.normalizer.NormalizeName(b, "")
	normA := strings.Join(tokensA, " ")
	normB := strings.Join(tokensB, " ")

	return &responses.SimilarityResponse{
		A:                   a,
		B:                   b,
		NormalizedA:         normA,
		NormalizedB:         normB,
		TokensA:             tokensA,
		TokensB:             tokensB,
		SoundexA:            phonetic.ClassOf(tokensA),
		SoundexB:            phonetic.ClassOf(tokensB),
		JaroWinkler:         as.sim.JaroWinkler(normA, normB),
		TokenScore:          as.sim.TokenScore(normA, normB),
		BestPair:            as.sim.BestPairTokens(tokensA, tokensB),
		Combination:         as.sim.BestPairOverCombinations(normalizer.GenerateWordCombinations(tokensA), normalizer.GenerateWordCombinations(tokensB)),
		LevenshteinDistance: levenshtein.ComputeDistance(normA, normB),
		LevenshteinRatio:    matcher.LevenshteinRatio(normA, normB),
	}
}

// TriggerRefresh nạp lại toàn bộ danh sách ngay lập tức
func (as *AdminService) TriggerRefresh(ctx context.Context) (*responses.RefreshResponse, error) {
	stats, err := as.refresh.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return &responses.RefreshResponse{
		Success:          true,
		TotalEntities:    stats.Indexed,
		BySource:         stats.BySource,
		ProcessingTimeMs: stats.TookMs,
		Message:          fmt.Sprintf("indexed %d entities from %d sources", stats.Indexed, len(stats.BySource)),
	}, nil
}

// Health trạng thái phục vụ hiện tại. Index rỗng là degraded: server
// chạy nhưng chưa sàng lọc được.
func (as *AdminService) Health() *responses.HealthCheckResponse {
	status := "ok"
	if as.index.Size() == 0 {
		status = "degraded"
	}
	loaded := 0
	for _, src := range allSources {
		if len(as.index.GetBySource(src)) > 0 {
			loaded++
		}
	}
	return &responses.HealthCheckResponse{
		Status:        status,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Uptime:        time.Since(as.startTime).Round(time.Second).String(),
		IndexedTotal:  as.index.Size(),
		IndexVersion:  as.index.Version(),
		SourcesLoaded: loaded,
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
