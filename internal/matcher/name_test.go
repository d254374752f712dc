package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/trace"
)

func TestCompareNamesExactViaAltName(t *testing.T) {
	sc, n := newTestScorer(t)

	query := mustPrepare(t, n, &models.Entity{
		ID: "query", Name: "Bank GPB", Type: models.EntityBusiness,
	})
	candidate := mustPrepare(t, n, &models.Entity{
		ID: "us_ofac-36963", Name: "GAZPROMBANK", Type: models.EntityBusiness,
		AltNames: []string{"BANK GPB"},
	})

	res := sc.compareNames(query, candidate, trace.Disabled())
	assert.True(t, res.exact, "query equal to an indexed alt counts as exact")
	assert.InDelta(t, 1.0, res.alt, 1e-9)
	assert.Equal(t, 2, res.matchingTokens)
	assert.Equal(t, 2, res.fieldsCompared)
	assert.Greater(t, res.combined, res.primary, "alt hit lifts the blend above the primary score")
}

func TestCompareNamesMatchingTokensSpanAlts(t *testing.T) {
	sc, n := newTestScorer(t)

	query := mustPrepare(t, n, &models.Entity{
		ID: "query", Name: "Nicolas Maduro", Type: models.EntityPerson,
	})
	candidate := mustPrepare(t, n, &models.Entity{
		ID: "c", Name: "MADURO MOROS", Type: models.EntityPerson,
		AltNames: []string{"Nicolas Moros"},
	})

	res := sc.compareNames(query, candidate, trace.Disabled())
	// "maduro" nằm trong tên chính, "nicolas" chỉ nằm trong alias.
	assert.Equal(t, 2, res.matchingTokens)
}

// Favoritism thưởng từ khớp tuyệt đối khi so alias doanh nghiệp, chỉ
// bật khi cấu hình dương.
func TestCompareNamesExactMatchFavoritism(t *testing.T) {
	plain, n := newTestScorer(t)

	favCfg := config.DefaultMatch()
	favCfg.ExactMatchFavoritism = 0.05
	boosted, err := NewScorer(favCfg, zap.NewNop())
	require.NoError(t, err)

	query := mustPrepare(t, n, &models.Entity{
		ID: "query", Name: "Gazprom Banker", Type: models.EntityBusiness,
	})
	candidate := mustPrepare(t, n, &models.Entity{
		ID: "c", Name: "GAZPROMBANK", Type: models.EntityBusiness,
		AltNames: []string{"GAZPROM BANK"},
	})

	plainRes := plain.compareNames(query, candidate, trace.Disabled())
	boostedRes := boosted.compareNames(query, candidate, trace.Disabled())

	assert.InDelta(t, 0.8266667, plainRes.alt, 1e-6)
	assert.InDelta(t, 0.8516667, boostedRes.alt, 1e-6)
	assert.Greater(t, boostedRes.alt, plainRes.alt)
}

func TestCompareNamesBlending(t *testing.T) {
	sc, n := newTestScorer(t)

	t.Run("primary and alt average", func(t *testing.T) {
		query := mustPrepare(t, n, &models.Entity{
			ID: "q", Name: "Gazprombank", Type: models.EntityBusiness,
		})
		candidate := mustPrepare(t, n, &models.Entity{
			ID: "c", Name: "GAZPROMBANK", Type: models.EntityBusiness,
			AltNames: []string{"GAZPROMBANK AO"},
		})
		res := sc.compareNames(query, candidate, trace.Disabled())
		assert.InDelta(t, 1.0, res.primary, 1e-9)
		assert.InDelta(t, 0.925, res.alt, 1e-9)
		assert.InDelta(t, 0.9625, res.combined, 1e-9)
	})

	t.Run("no alts leaves primary as combined", func(t *testing.T) {
		query := mustPrepare(t, n, &models.Entity{
			ID: "q", Name: "Gazprombank", Type: models.EntityBusiness,
		})
		candidate := mustPrepare(t, n, &models.Entity{
			ID: "c", Name: "GAZPROMBANK", Type: models.EntityBusiness,
		})
		res := sc.compareNames(query, candidate, trace.Disabled())
		assert.Equal(t, res.primary, res.combined)
		assert.Equal(t, 1, res.fieldsCompared)
	})
}
