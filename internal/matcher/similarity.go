// Package matcher implements the fuzzy similarity engine: the
// Jaro-Winkler family, the per-field comparators and the weighted
// entity scorer that turns a query/candidate pair into a ranked score.
package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/internal/normalizer"
)

// positionalWindow is how far apart two words may sit in their
// respective names and still be aligned by the favoritism variant.
const positionalWindow = 3

// Similarity is the token-level scoring core. All knobs come from
// MatchConfig; construction fails without one so a half-configured
// engine can never score.
type Similarity struct {
	cfg *config.MatchConfig
}

// NewSimilarity tạo mới Similarity engine.
func NewSimilarity(cfg *config.MatchConfig) (*Similarity, error) {
	if cfg == nil {
		return nil, config.ErrMissingConfig
	}
	return &Similarity{cfg: cfg}, nil
}

// JaroWinkler is the base score: Jaro with the Winkler prefix boost
// applied above the configured boost threshold.
func (s *Similarity) JaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, s.cfg.JaroWinklerBoostThreshold, s.cfg.JaroWinklerPrefixSize)
}

// TokenScore compares two single tokens: base Jaro-Winkler with the
// length-difference and first-letter penalties on top. Each penalty is
// applied at most once.
func (s *Similarity) TokenScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	score := s.JaroWinkler(a, b)

	ra, rb := []rune(a), []rune(b)
	shorter, longer := len(ra), len(rb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < s.cfg.LengthDifferenceCutoffFactor {
		score *= 1 - s.cfg.LengthDifferencePenaltyWeight
	}
	if ra[0] != rb[0] {
		score *= s.cfg.DifferentLetterPenaltyWeight
	}
	return clamp01(score)
}

// BestPairTokens scores token lists: every query token picks its best
// indexed token (reuse allowed), the picks are averaged, and indexed
// tokens nobody picked charge the unmatched penalty.
func (s *Similarity) BestPairTokens(queryTokens, indexTokens []string) float64 {
	if len(queryTokens) == 0 || len(indexTokens) == 0 {
		return 0
	}

	picked := make([]bool, len(indexTokens))
	var sum float64
	for _, q := range queryTokens {
		best, bestIdx := 0.0, -1
		for j, t := range indexTokens {
			if sc := s.TokenScore(q, t); sc > best {
				best, bestIdx = sc, j
			}
		}
		if bestIdx >= 0 {
			picked[bestIdx] = true
		}
		sum += best
	}

	unmatched := 0
	for _, p := range picked {
		if !p {
			unmatched++
		}
	}
	avg := sum / float64(len(queryTokens))
	penalty := s.cfg.UnmatchedIndexTokenWeight * float64(unmatched) / float64(len(indexTokens))
	return clamp01(avg - penalty)
}

// BestPairCombination generates word combinations for both sides and
// returns the best BestPairTokens over the Cartesian product. The
// pairwise penalties are already embedded; nothing else is charged.
func (s *Similarity) BestPairCombination(queryTokens, indexTokens []string) float64 {
	return s.BestPairOverCombinations(
		normalizer.GenerateWordCombinations(queryTokens),
		normalizer.GenerateWordCombinations(indexTokens),
	)
}

// BestPairOverCombinations is BestPairCombination for callers that
// already hold precomputed combination lists (prepared entities).
func (s *Similarity) BestPairOverCombinations(queryCombos, indexCombos [][]string) float64 {
	best := 0.0
	for _, q := range queryCombos {
		for _, i := range indexCombos {
			if sc := s.BestPairTokens(q, i); sc > best {
				best = sc
			}
		}
	}
	return best
}

// JaroWinklerWithFavoritism scores a full indexed term against a full
// query term. Indexed words align with query words at most
// positionalWindow apart; a perfect word hit earns the favoritism
// bonus. A multi-word indexed term matched by a single-word query is
// scaled by 0.9, and an indexed term longer than a query of more than
// five words keeps only its best len(query) word scores.
func (s *Similarity) JaroWinklerWithFavoritism(indexTerm, query string, favoritism float64) float64 {
	indexWords := strings.Fields(indexTerm)
	queryWords := strings.Fields(query)
	if len(indexWords) == 0 || len(queryWords) == 0 {
		return 0
	}

	scores := make([]float64, 0, len(indexWords))
	for i, iw := range indexWords {
		lo, hi := i-positionalWindow, i+positionalWindow
		if lo < 0 {
			lo = 0
		}
		if hi > len(queryWords)-1 {
			hi = len(queryWords) - 1
		}
		best := 0.0
		for j := lo; j <= hi; j++ {
			sc := s.TokenScore(iw, queryWords[j])
			if sc >= 1.0 {
				sc += favoritism
			}
			if sc > best {
				best = sc
			}
		}
		scores = append(scores, best)
	}

	if len(indexWords) > len(queryWords) && len(queryWords) > 5 {
		sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
		scores = scores[:len(queryWords)]
	}

	var sum float64
	for _, sc := range scores {
		sum += sc
	}
	final := sum / float64(len(scores))
	if len(indexWords) > 1 && len(queryWords) == 1 {
		final *= 0.9
	}
	return math.Min(final, 1.0)
}

// LevenshteinRatio is a cross-check metric surfaced by the similarity
// debug endpoint. It never participates in ranking.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
