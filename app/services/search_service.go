package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/app/requests"
	"github.com/watchlist-screener/app/responses"
	"github.com/watchlist-screener/helpers/utils"
	"github.com/watchlist-screener/internal/index"
	"github.com/watchlist-screener/internal/matcher"
	"github.com/watchlist-screener/internal/normalizer"
	"github.com/watchlist-screener/internal/phonetic"
	"github.com/watchlist-screener/internal/trace"
)

// ErrInvalidQuery flags request parameters the service cannot screen
// with, as opposed to internal failures.
var ErrInvalidQuery = errors.New("search: invalid query")

// SearchService service sàng lọc truy vấn với index danh sách trừng phạt
type SearchService struct {
	index      *index.Index
	normalizer *normalizer.EntityNormalizer
	scorer     *matcher.Scorer
	cfg        *config.Config
	logger     *zap.Logger
	cache      *lru.Cache[string, []models.SearchResult]
	startTime  time.Time
}

// NewSearchService tạo mới SearchService
func NewSearchService(idx *index.Index, norm *normalizer.EntityNormalizer, scorer *matcher.Scorer, cfg *config.Config, logger *zap.Logger) (*SearchService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("search service: %w", config.ErrMissingConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheSize := cfg.Server.CacheSize
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, []models.SearchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("search service: building result cache: %w", err)
	}

	return &SearchService{
		index:      idx,
		normalizer: norm,
		scorer:     scorer,
		cfg:        cfg,
		logger:     logger,
		cache:      cache,
		startTime:  time.Now(),
	}, nil
}

// Search sàng lọc một truy vấn: chuẩn hóa, lọc ngữ âm, chấm điểm song
// song, xếp hạng.
//
// Cancellation is cooperative between candidates: a cancelled context
// yields whatever results were scored so far with Cancelled set, and no
// trace is finalized for the partial run.
func (ss *SearchService) Search(ctx context.Context, req requests.SearchRequest) (*responses.SearchResponse, error) {
	started := time.Now()

	if ss.index.Size() == 0 {
		return nil, index.ErrEmptyIndex
	}

	// Bước 1: dựng query entity tạm thời và chuẩn hóa
	query, err := ss.buildQueryEntity(req)
	if err != nil {
		return nil, err
	}

	tr := trace.Disabled()
	if req.Trace {
		rec := trace.NewRecorder(utils.GenerateUUID())
		rec.WithMetadata("query", req.Name)
		tr = rec
	}

	if err := tr.Traced(trace.PhaseNormalization, "query normalized", func() error {
		query, err = ss.normalizer.Normalize(query)
		return err
	}); err != nil {
		return nil, fmt.Errorf("search: normalizing query: %w", err)
	}

	minMatch := req.MinMatch
	if minMatch <= 0 {
		minMatch = ss.cfg.Server.DefaultMinMatch
	}
	if minMatch > 1 {
		minMatch = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = ss.cfg.Server.DefaultLimit
	}
	if limit > ss.cfg.Server.MaxLimit {
		limit = ss.cfg.Server.MaxLimit
	}

	// Bước 2: thử cache trước khi chấm điểm
	key := ss.cacheKey(req, minMatch, limit)
	if !req.Trace {
		if cached, ok := ss.cache.Get(key); ok {
			return &responses.SearchResponse{
				Query:            req.Name,
				Total:            len(cached),
				CacheHit:         true,
				Results:          cached,
				ProcessingTimeMs: time.Since(started).Milliseconds(),
			}, nil
		}
	}

	// Bước 3: lấy candidates theo filter
	candidates, err := ss.candidates(req.Source, req.Type)
	if err != nil {
		return nil, err
	}

	// Bước 4: lọc ngữ âm và chấm điểm song song
	results, cancelled := ss.scoreCandidates(ctx, query, candidates, minMatch, tr)

	// Bước 5: xếp hạng giảm dần, hòa điểm thì theo id
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entity.ID < results[j].Entity.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	resp := &responses.SearchResponse{
		Query:            req.Name,
		Total:            len(results),
		Cancelled:        cancelled,
		Results:          results,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}

	if cancelled {
		ss.logger.Warn("tìm kiếm bị hủy giữa chừng",
			zap.String("query", req.Name),
			zap.Int("partial_results", len(results)),
		)
		return resp, nil
	}

	if req.Trace {
		if len(results) > 0 {
			tr.WithBreakdown(results[0].Breakdown)
		}
		resp.Trace = tr.Finalize()
	} else {
		ss.cache.Add(key, results)
	}
	return resp, nil
}

// scoreCandidates fans the candidate set out over the worker pool. The
// phonetic prefilter runs on the submitting goroutine; scoring runs on
// the pool.
func (ss *SearchService) scoreCandidates(ctx context.Context, query *models.Entity, candidates []*models.Entity, minMatch float64, tr trace.Context) ([]models.SearchResult, bool) {
	phoneticOn := !ss.cfg.Match.PhoneticFilteringDisabled
	queryClass := ""
	if query.Prepared != nil {
		queryClass = query.Prepared.PhoneticClass
	}

	var (
		mu        sync.Mutex
		results   []models.SearchResult
		cancelled atomic.Bool
	)
	droppedPhonetic := 0

	g := &errgroup.Group{}
	g.SetLimit(ss.workers())

	for _, cand := range candidates {
		if ctx.Err() != nil {
			cancelled.Store(true)
			break
		}
		if phoneticOn && cand.Prepared != nil && !phonetic.Compatible(queryClass, cand.Prepared.PhoneticClass) {
			droppedPhonetic++
			continue
		}

		cand := cand
		g.Go(func() error {
			if ctx.Err() != nil {
				cancelled.Store(true)
				return nil
			}
			bd, err := ss.scorer.Score(query, cand, tr)
			if err != nil {
				ss.logger.Debug("bỏ qua candidate không chấm điểm được",
					zap.String("entity_id", cand.ID),
					zap.Error(err),
				)
				return nil
			}
			if bd.TotalWeightedScore < minMatch {
				return nil
			}
			mu.Lock()
			results = append(results, models.SearchResult{
				Entity:    cand,
				Score:     bd.TotalWeightedScore,
				Breakdown: bd,
			})
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if tr.Enabled() {
		dropped := droppedPhonetic
		total := len(candidates)
		kept := len(results)
		tr.RecordData(trace.PhasePhoneticFilter, "phonetic prefilter applied", func() map[string]any {
			return map[string]any{
				"candidates":       total,
				"dropped_phonetic": dropped,
				"above_min_match":  kept,
			}
		})
	}
	return results, cancelled.Load()
}

// candidates resolves the filter parameters against the index views.
func (ss *SearchService) candidates(source, typ string) ([]*models.Entity, error) {
	src := models.SourceList(strings.ToLower(strings.TrimSpace(source)))
	et := models.EntityType(strings.ToLower(strings.TrimSpace(typ)))

	if source != "" && !isValidSource(src) {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidQuery, source)
	}
	if typ != "" && !isValidFilterType(et) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidQuery, typ)
	}

	switch {
	case source != "" && typ != "":
		bySource := ss.index.GetBySource(src)
		out := make([]*models.Entity, 0, len(bySource))
		for _, e := range bySource {
			if e.Type == et {
				out = append(out, e)
			}
		}
		return out, nil
	case source != "":
		return ss.index.GetBySource(src), nil
	case typ != "":
		return ss.index.GetByType(et), nil
	default:
		return ss.index.GetAll(), nil
	}
}

// buildQueryEntity lifts request parameters into a transient entity.
// Person evidence (birth date, gender) implies a person query when no
// type was given.
func (ss *SearchService) buildQueryEntity(req requests.SearchRequest) (*models.Entity, error) {
	// Batch items skip request binding, so validate here too.
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidQuery)
	}

	typ := models.EntityType(strings.ToLower(strings.TrimSpace(req.Type)))
	if req.Type == "" {
		typ = models.EntityUnknown
		if req.BirthDate != "" || req.Gender != "" {
			typ = models.EntityPerson
		}
	}

	e := &models.Entity{
		ID:   "query",
		Name: req.Name,
		Type: typ,
	}

	switch typ {
	case models.EntityPerson:
		e.Person = &models.Person{Gender: req.Gender}
		if req.BirthDate != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid birth_date %q (want yyyy-mm-dd)", ErrInvalidQuery, req.BirthDate)
			}
			e.Person.BirthDate = &t
		}
	case models.EntityBusiness:
		e.Business = &models.Business{}
	case models.EntityOrganization:
		e.Organization = &models.Organization{}
	case models.EntityVessel:
		e.Vessel = &models.Vessel{}
	case models.EntityAircraft:
		e.Aircraft = &models.Aircraft{}
	}

	if req.AltName != "" {
		e.AltNames = []string{req.AltName}
	}

	addr := models.Address{
		Line1:      req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if !addr.Empty() {
		e.Addresses = []models.Address{addr}
	}

	if req.IDNumber != "" {
		e.GovernmentIDs = []models.GovernmentID{{
			Type:       models.IDOther,
			Identifier: req.IDNumber,
			Country:    req.IDCountry,
		}}
	}
	if req.CryptoAddress != "" {
		e.CryptoAddresses = []models.CryptoAddress{{
			Currency: req.CryptoCurrency,
			Address:  req.CryptoAddress,
		}}
	}
	if req.Email != "" || req.Phone != "" {
		e.Contact = &models.ContactInfo{
			EmailAddress: req.Email,
			PhoneNumber:  req.Phone,
		}
	}
	return e, nil
}

// ScreenBatch sàng lọc nhiều truy vấn trong một lần gọi, giữ nguyên
// thứ tự input. Per-item failures stay per-item.
func (ss *SearchService) ScreenBatch(ctx context.Context, req requests.BatchScreenRequest) *responses.BatchScreenResponse {
	started := time.Now()
	items := make([]responses.BatchScreenItem, len(req.Items))

	g := &errgroup.Group{}
	g.SetLimit(ss.workers())

	for i, item := range req.Items {
		i, item := i, item
		item.Trace = false
		g.Go(func() error {
			resp, err := ss.Search(ctx, item)
			if err != nil {
				items[i] = responses.BatchScreenItem{Query: item.Name, Error: err.Error()}
				return nil
			}
			items[i] = responses.BatchScreenItem{
				Query:   item.Name,
				Total:   resp.Total,
				Results: resp.Results,
			}
			return nil
		})
	}
	g.Wait()

	return &responses.BatchScreenResponse{
		Items:            items,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
}

// GetEntity tra cứu một entity theo id
func (ss *SearchService) GetEntity(id string) (*models.Entity, bool) {
	return ss.index.GetByID(id)
}

// IndexSize số entity sẵn sàng tra cứu
func (ss *SearchService) IndexSize() int {
	return ss.index.Size()
}

// IndexVersion phiên bản index hiện tại
func (ss *SearchService) IndexVersion() uint64 {
	return ss.index.Version()
}

// GetStartTime thời gian khởi động service
func (ss *SearchService) GetStartTime() time.Time {
	return ss.startTime
}

func (ss *SearchService) workers() int {
	if w := ss.cfg.Server.WorkerCount; w > 0 {
		return w
	}
	return runtime.GOMAXPROCS(0)
}

// cacheKey fingerprints the request plus the index version, so a list
// refresh invalidates every cached result without an explicit flush.
func (ss *SearchService) cacheKey(req requests.SearchRequest, minMatch float64, limit int) string {
	body, _ := json.Marshal(req)
	return utils.Fingerprint(
		string(body),
		strconv.FormatFloat(minMatch, 'f', 4, 64),
		strconv.Itoa(limit),
		strconv.FormatUint(ss.index.Version(), 10),
	)
}

func isValidSource(s models.SourceList) bool {
	switch s {
	case models.SourceUSOFAC, models.SourceUSCSL, models.SourceEUCSL, models.SourceUKCSL:
		return true
	}
	return false
}

func isValidFilterType(t models.EntityType) bool {
	switch t {
	case models.EntityPerson, models.EntityBusiness, models.EntityOrganization, models.EntityVessel, models.EntityAircraft:
		return true
	}
	return false
}
