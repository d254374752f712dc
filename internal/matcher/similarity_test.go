package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchlist-screener/app/config"
)

func newTestSimilarity(t *testing.T) *Similarity {
	t.Helper()
	sim, err := NewSimilarity(config.DefaultMatch())
	require.NoError(t, err)
	return sim
}

func TestNewSimilarityRequiresConfig(t *testing.T) {
	_, err := NewSimilarity(nil)
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

func TestJaroWinkler(t *testing.T) {
	sim := newTestSimilarity(t)

	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "maduro", "maduro", 1.0},
		{"classic transposition", "martha", "marhta", 0.9611111},
		{"empty left", "", "maduro", 0},
		{"empty right", "maduro", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sim.JaroWinkler(tt.a, tt.b), 1e-6)
		})
	}
}

func TestTokenScorePenalties(t *testing.T) {
	sim := newTestSimilarity(t)

	t.Run("no penalty for same length and first letter", func(t *testing.T) {
		// Jaro 0.866667, tiền tố "sm" đẩy lên 0.893333.
		assert.InDelta(t, 0.8933333, sim.TokenScore("smith", "smyth"), 1e-6)
	})

	t.Run("different first letter scales by 0.9", func(t *testing.T) {
		// jones/bones: Jaro-Winkler 0.866667 rồi nhân 0.9.
		assert.InDelta(t, 0.78, sim.TokenScore("jones", "bones"), 1e-6)
	})

	t.Run("length gap scales by 0.7", func(t *testing.T) {
		// ab/abcdef: JW 0.822222, tỉ lệ 2/6 dưới ngưỡng 0.9.
		assert.InDelta(t, 0.5755556, sim.TokenScore("ab", "abcdef"), 1e-6)
	})

	t.Run("empty token scores zero", func(t *testing.T) {
		assert.Zero(t, sim.TokenScore("", "abc"))
	})
}

func TestBestPairTokens(t *testing.T) {
	sim := newTestSimilarity(t)

	tests := []struct {
		name     string
		query    []string
		index    []string
		expected float64
	}{
		{
			name:     "identical lists",
			query:    []string{"nicolas", "maduro"},
			index:    []string{"nicolas", "maduro"},
			expected: 1.0,
		},
		{
			name:     "one unmatched index token",
			query:    []string{"nicolas", "maduro"},
			index:    []string{"nicolas", "maduro", "moros"},
			expected: 0.95, // trung bình 1.0 trừ 0.15 × 1/3
		},
		{
			name:     "single query token against two",
			query:    []string{"maduro"},
			index:    []string{"maduro", "moros"},
			expected: 0.925,
		},
		{
			name:     "empty query",
			query:    nil,
			index:    []string{"maduro"},
			expected: 0,
		},
		{
			name:     "empty index",
			query:    []string{"maduro"},
			index:    nil,
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sim.BestPairTokens(tt.query, tt.index), 1e-9)
		})
	}
}

func TestBestPairCombination(t *testing.T) {
	sim := newTestSimilarity(t)

	t.Run("fused stock form matches concatenation", func(t *testing.T) {
		got := sim.BestPairCombination([]string{"jsc", "argument"}, []string{"jscargument"})
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("combination beats the raw token pairing", func(t *testing.T) {
		raw := sim.BestPairTokens([]string{"jsc", "argument"}, []string{"jscargument"})
		combined := sim.BestPairCombination([]string{"jsc", "argument"}, []string{"jscargument"})
		assert.Greater(t, combined, raw)
	})

	t.Run("no combinations needed for plain names", func(t *testing.T) {
		direct := sim.BestPairTokens([]string{"nicolas", "maduro"}, []string{"nicolas", "maduro"})
		combined := sim.BestPairCombination([]string{"nicolas", "maduro"}, []string{"nicolas", "maduro"})
		assert.Equal(t, direct, combined)
	})
}

func TestJaroWinklerWithFavoritism(t *testing.T) {
	sim := newTestSimilarity(t)

	t.Run("favoritism never pushes past one", func(t *testing.T) {
		got := sim.JaroWinklerWithFavoritism("gazprombank", "gazprombank", 0.05)
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("multi-word index against single-word query scales by 0.9", func(t *testing.T) {
		got := sim.JaroWinklerWithFavoritism("acme group", "acme", 0)
		assert.InDelta(t, 0.45, got, 1e-9)
	})

	t.Run("long index keeps only best scores for long queries", func(t *testing.T) {
		got := sim.JaroWinklerWithFavoritism("a b c d e f zzz", "a b c d e f", 0)
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("empty terms", func(t *testing.T) {
		assert.Zero(t, sim.JaroWinklerWithFavoritism("", "x", 0))
		assert.Zero(t, sim.JaroWinklerWithFavoritism("x", "", 0))
	})
}

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "maduro", "maduro", 1.0},
		{"classic pair", "kitten", "sitting", 1.0 - 3.0/7.0},
		{"empty side", "", "abc", 0},
		{"both empty", "", "", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LevenshteinRatio(tt.a, tt.b), 1e-9)
		})
	}
}
