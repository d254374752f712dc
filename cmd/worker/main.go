package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/services"
	"github.com/watchlist-screener/internal/index"
	"github.com/watchlist-screener/internal/matcher"
	"github.com/watchlist-screener/internal/normalizer"
)

// Offline data worker: runs the full list pipeline once (download →
// parse → merge → normalize) and prints what the server would serve,
// without starting HTTP. With two name arguments it prints similarity
// diagnostics instead, which is handy when tuning match thresholds.
//
//	worker                    one-shot load, prints per-source stats
//	worker "name a" "name b"  similarity diagnostics for a pair
func main() {
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	norm, err := normalizer.NewEntityNormalizer(cfg.Match, logger)
	if err != nil {
		logger.Fatal("Failed to initialize normalizer", zap.Error(err))
	}

	if len(os.Args) == 3 {
		diagnosePair(cfg, norm, os.Args[1], os.Args[2])
		return
	}

	logger.Info("Starting watchlist data worker...")

	// Ctrl-C cancels the pipeline; a cancelled run keeps nothing.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idx := index.New()
	refreshService, err := services.NewRefreshService(idx, norm, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize refresh service", zap.Error(err))
	}

	stats, err := refreshService.Refresh(ctx)
	if err != nil {
		logger.Fatal("List load failed", zap.Error(err))
	}

	fmt.Println("=== Watchlist load complete ===")
	for source, count := range stats.BySource {
		fmt.Printf("✓ %-10s %d records\n", source, count)
	}
	fmt.Printf("✓ parsed=%d merged=%d indexed=%d skipped=%d\n",
		stats.Parsed, stats.Merged, stats.Indexed, stats.SkippedBad)
	fmt.Printf("✓ index version %d, took %dms\n", stats.IndexVersion, stats.TookMs)

	logger.Info("Worker exited")
}

// diagnosePair prints every similarity signal for two raw names, the
// same numbers the /admin/similarity endpoint reports.
func diagnosePair(cfg *config.Config, norm *normalizer.EntityNormalizer, a, b string) {
	sim, err := matcher.NewSimilarity(cfg.Match)
	if err != nil {
		fmt.Fprintln(os.Stderr, "similarity engine:", err)
		os.Exit(1)
	}

	tokensA, langA := norm.NormalizeName(a, "")
	tokensB, langB := norm.NormalizeName(b, "")
	normA, normB := strings.Join(tokensA, " "), strings.Join(tokensB, " ")

	fmt.Println("=== Similarity diagnostics ===")
	fmt.Printf("✓ Raw A: %s\n", a)
	fmt.Printf("✓ Raw B: %s\n", b)
	fmt.Printf("✓ Normalized A: %s (lang=%s)\n", normA, langA)
	fmt.Printf("✓ Normalized B: %s (lang=%s)\n", normB, langB)
	fmt.Printf("✓ JaroWinkler:        %.4f\n", sim.JaroWinkler(normA, normB))
	fmt.Printf("✓ TokenScore:         %.4f\n", sim.TokenScore(normA, normB))
	fmt.Printf("✓ BestPairTokens:     %.4f\n", sim.BestPairTokens(tokensA, tokensB))
	fmt.Printf("✓ BestPairCombos:     %.4f\n", sim.BestPairCombination(tokensA, tokensB))
	fmt.Printf("✓ LevenshteinRatio:   %.4f\n", matcher.LevenshteinRatio(normA, normB))
}
