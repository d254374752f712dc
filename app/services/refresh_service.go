package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/index"
	"github.com/watchlist-screener/internal/merge"
	"github.com/watchlist-screener/internal/normalizer"
	"github.com/watchlist-screener/internal/sources"
)

// Tên file cache trên đĩa cho từng nguồn.
const (
	fileOFACSDN = "sdn.csv"
	fileOFACAlt = "alt.csv"
	fileOFACAdd = "add.csv"
	fileUSCSL   = "consolidated.csv"
	fileEUCSL   = "eu_consolidated.csv"
	fileUKCSL   = "ConList.csv"
)

// ErrRefreshInProgress is returned when a refresh is requested while a
// previous run is still loading.
var ErrRefreshInProgress = errors.New("refresh: already running")

// RefreshStats tóm tắt một lần nạp dữ liệu.
type RefreshStats struct {
	BySource     map[string]int `json:"by_source"`
	Parsed       int            `json:"parsed"`
	Merged       int            `json:"merged"`
	Indexed      int            `json:"indexed"`
	SkippedBad   int            `json:"skipped_bad"`
	IndexVersion uint64         `json:"index_version"`
	TookMs       int64          `json:"took_ms"`
	RefreshedAt  time.Time      `json:"refreshed_at"`
}

// RefreshService service tải file nguồn, parse, gộp bản ghi trùng và
// nạp lại index.
//
// A refresh is all-or-nothing: if any configured source cannot be
// loaded the previous snapshot keeps serving, so a transient download
// failure never makes sanctioned entities disappear from screening.
type RefreshService struct {
	index      *index.Index
	normalizer *normalizer.EntityNormalizer
	downloader *sources.Downloader
	cfg        *config.Config
	logger     *zap.Logger

	ofac *sources.OFACParser
	csl  *sources.CSLParser
	eu   *sources.EUParser
	uk   *sources.UKParser

	mu         sync.Mutex
	refreshing bool
	last       *RefreshStats
}

// NewRefreshService tạo mới RefreshService
func NewRefreshService(idx *index.Index, norm *normalizer.EntityNormalizer, cfg *config.Config, logger *zap.Logger) (*RefreshService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("refresh service: %w", config.ErrMissingConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshService{
		index:      idx,
		normalizer: norm,
		downloader: sources.NewDownloader(cfg.Server.DataDir, cfg.Server.DownloadTimeout, logger),
		cfg:        cfg,
		logger:     logger,
		ofac:       sources.NewOFACParser(logger),
		csl:        sources.NewCSLParser(logger),
		eu:         sources.NewEUParser(logger),
		uk:         sources.NewUKParser(logger),
	}, nil
}

// Refresh chạy trọn pipeline: download → parse → merge → normalize →
// swap index. Chỉ một lần chạy tại một thời điểm.
func (rs *RefreshService) Refresh(ctx context.Context) (*RefreshStats, error) {
	rs.mu.Lock()
	if rs.refreshing {
		rs.mu.Unlock()
		return nil, ErrRefreshInProgress
	}
	rs.refreshing = true
	rs.mu.Unlock()
	defer func() {
		rs.mu.Lock()
		rs.refreshing = false
		rs.mu.Unlock()
	}()

	started := time.Now()
	rs.logger.Info("bắt đầu nạp dữ liệu danh sách trừng phạt")

	raw, bySource, err := rs.loadSources(ctx)
	if err != nil {
		return nil, err
	}

	merged := merge.Merge(raw)
	prepared, skipped := rs.prepareAll(ctx, merged)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(prepared) == 0 {
		return nil, fmt.Errorf("refresh: no usable entities parsed, keeping previous snapshot")
	}

	rs.index.ReplaceAll(prepared)

	stats := &RefreshStats{
		BySource:     bySource,
		Parsed:       len(raw),
		Merged:       len(merged),
		Indexed:      len(prepared),
		SkippedBad:   skipped,
		IndexVersion: rs.index.Version(),
		TookMs:       time.Since(started).Milliseconds(),
		RefreshedAt:  time.Now().UTC(),
	}
	rs.mu.Lock()
	rs.last = stats
	rs.mu.Unlock()

	rs.logger.Info("nạp dữ liệu hoàn tất",
		zap.Int("parsed", stats.Parsed),
		zap.Int("merged", stats.Merged),
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped_bad", stats.SkippedBad),
		zap.Uint64("index_version", stats.IndexVersion),
		zap.Int64("took_ms", stats.TookMs),
	)
	return stats, nil
}

// Run chạy refresh định kỳ cho đến khi context bị hủy. Blocking; gọi
// trong goroutine riêng.
func (rs *RefreshService) Run(ctx context.Context) {
	interval := rs.cfg.Server.RefreshInterval
	if interval <= 0 {
		rs.logger.Info("refresh định kỳ tắt (data.refresh_interval <= 0)")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rs.logger.Info("dừng refresh định kỳ", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			if _, err := rs.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				rs.logger.Error("refresh định kỳ thất bại, giữ snapshot cũ", zap.Error(err))
			}
		}
	}
}

// LastRefresh thống kê của lần nạp gần nhất, nil nếu chưa nạp lần nào
func (rs *RefreshService) LastRefresh() *RefreshStats {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.last
}

// Refreshing cho biết có lần nạp nào đang chạy không
func (rs *RefreshService) Refreshing() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.refreshing
}

// loadSources fetches and parses every configured source in parallel.
// Results keep source order so the merge representative is stable
// across runs.
func (rs *RefreshService) loadSources(ctx context.Context) ([]*models.Entity, map[string]int, error) {
	loads := []struct {
		name string
		load func(context.Context) ([]*models.Entity, error)
	}{
		{string(models.SourceUSOFAC), rs.loadOFAC},
		{string(models.SourceUSCSL), rs.loadUSCSL},
		{string(models.SourceEUCSL), rs.loadEUCSL},
		{string(models.SourceUKCSL), rs.loadUKCSL},
	}

	parsed := make([][]*models.Entity, len(loads))
	g, gctx := errgroup.WithContext(ctx)
	for i, sl := range loads {
		i, sl := i, sl
		g.Go(func() error {
			ents, err := sl.load(gctx)
			if err != nil {
				return fmt.Errorf("refresh: source %s: %w", sl.name, err)
			}
			parsed[i] = ents
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var raw []*models.Entity
	bySource := make(map[string]int, len(loads))
	for i, sl := range loads {
		bySource[sl.name] = len(parsed[i])
		raw = append(raw, parsed[i]...)
	}
	return raw, bySource, nil
}

// prepareAll normalizes merged entities on the worker pool. Entities
// the normalizer rejects are dropped and counted, never fatal.
func (rs *RefreshService) prepareAll(ctx context.Context, merged []*models.Entity) ([]*models.Entity, int) {
	out := make([]*models.Entity, len(merged))

	workers := rs.cfg.Server.WorkerCount
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g := &errgroup.Group{}
	g.SetLimit(workers)

	for i, e := range merged {
		if ctx.Err() != nil {
			break
		}
		i, e := i, e
		g.Go(func() error {
			prepared, err := rs.normalizer.Normalize(e)
			if err != nil {
				rs.logger.Warn("bỏ qua entity không chuẩn hóa được",
					zap.String("entity_id", e.ID),
					zap.String("source", string(e.Source)),
					zap.Error(err),
				)
				return nil
			}
			out[i] = prepared
			return nil
		})
	}
	g.Wait()

	prepared := make([]*models.Entity, 0, len(out))
	for _, e := range out {
		if e != nil {
			prepared = append(prepared, e)
		}
	}
	return prepared, len(merged) - len(prepared)
}

func (rs *RefreshService) loadOFAC(ctx context.Context) ([]*models.Entity, error) {
	urls := rs.cfg.Server.Sources
	sdn, err := rs.open(ctx, urls.OFACSDN, fileOFACSDN)
	if err != nil {
		return nil, err
	}
	defer sdn.Close()
	alt, err := rs.open(ctx, urls.OFACAltNames, fileOFACAlt)
	if err != nil {
		return nil, err
	}
	defer alt.Close()
	add, err := rs.open(ctx, urls.OFACAddrs, fileOFACAdd)
	if err != nil {
		return nil, err
	}
	defer add.Close()
	return rs.ofac.Parse(sdn, alt, add)
}

func (rs *RefreshService) loadUSCSL(ctx context.Context) ([]*models.Entity, error) {
	r, err := rs.open(ctx, rs.cfg.Server.Sources.USCSL, fileUSCSL)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return rs.csl.Parse(r)
}

func (rs *RefreshService) loadEUCSL(ctx context.Context) ([]*models.Entity, error) {
	r, err := rs.open(ctx, rs.cfg.Server.Sources.EUCSL, fileEUCSL)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return rs.eu.Parse(r)
}

func (rs *RefreshService) loadUKCSL(ctx context.Context) ([]*models.Entity, error) {
	r, err := rs.open(ctx, rs.cfg.Server.Sources.UKCSL, fileUKCSL)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return rs.uk.Parse(r)
}

// open fetches url into the data dir and opens it. A failed download
// falls back to the previously cached file when one exists.
func (rs *RefreshService) open(ctx context.Context, url, filename string) (io.ReadCloser, error) {
	if url == "" {
		if rs.downloader.Has(filename) {
			return rs.downloader.Open(filename)
		}
		return nil, fmt.Errorf("no url configured and no cached %s", filename)
	}
	if _, err := rs.downloader.Fetch(ctx, url, filename); err != nil {
		if rs.downloader.Has(filename) {
			rs.logger.Warn("tải thất bại, dùng file cache trên đĩa",
				zap.String("file", filename),
				zap.Error(err),
			)
			return rs.downloader.Open(filename)
		}
		return nil, err
	}
	return rs.downloader.Open(filename)
}
