package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist-screener/app/models"
)

func TestNormalizeAffiliationName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"suffix stripped", "Gazprom LLC", []string{"gazprom"}},
		{"stacked suffixes", "Acme Holding Co Ltd", []string{"acme", "holding"}},
		{"suffix alone survives", "Co", []string{"co"}},
		{"diacritics and case folded", "Công Ty Sông Đà", []string{"cong", "ty", "song", "da"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAffiliationName(tt.in))
		})
	}
}

func TestAffiliationTypeAdjust(t *testing.T) {
	tests := []struct {
		name  string
		query string
		index string
		want  float64
	}{
		{"exact type", "linked to", "linked to", 0.15},
		{"case and spacing folded", " Linked To ", "linked to", 0.15},
		{"exact unknown label", "custom label", "Custom Label", 0.15},
		{"same group", "associated with", "linked to", 0.08},
		{"ownership group", "owned by", "subsidiary of", 0.08},
		{"cross group", "owned by", "linked to", -0.15},
		{"unknown label", "bestie of", "linked to", 0},
		{"missing side", "", "linked to", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, affiliationTypeAdjust(tt.query, tt.index), 1e-12)
		})
	}
}

func TestCompareAffiliations(t *testing.T) {
	sc, _ := newTestScorer(t)

	aff := func(name, typ string) models.Affiliation {
		return models.Affiliation{EntityName: name, Type: typ}
	}
	entity := func(affs ...models.Affiliation) *models.Entity {
		return &models.Entity{Affiliations: affs}
	}

	t.Run("exact name and type", func(t *testing.T) {
		got, compared := sc.compareAffiliations(
			entity(aff("GAZPROM", "linked to")),
			entity(aff("Gazprom LLC", "linked to")),
		)
		assert.True(t, compared)
		assert.InDelta(t, 1.0, got, 1e-12, "hậu tố công ty không được kéo điểm xuống")
	})

	t.Run("cross group type charges the penalty", func(t *testing.T) {
		got, compared := sc.compareAffiliations(
			entity(aff("GAZPROM", "owned by")),
			entity(aff("GAZPROM", "linked to")),
		)
		assert.True(t, compared)
		assert.InDelta(t, 0.85, got, 1e-12)
	})

	t.Run("cubic mean keeps a strong link on top", func(t *testing.T) {
		got, compared := sc.compareAffiliations(
			entity(aff("GAZPROM", "owned by"), aff("GAZPROM", "linked to")),
			entity(aff("GAZPROM", "owned by")),
		)
		assert.True(t, compared)
		// điểm cặp [1.0, 0.85] → (1+0.614125)/(1+0.7225)
		assert.InDelta(t, 0.937083, got, 1e-6)
	})

	t.Run("one strong link dominates a dead one", func(t *testing.T) {
		got, compared := sc.compareAffiliations(
			entity(aff("GAZPROM", "linked to"), aff("QQQQ", "")),
			entity(aff("GAZPROM", "linked to")),
		)
		assert.True(t, compared)
		// Trung bình thường sẽ cho 0.5; phép gộp bậc ba phải giữ 1.0.
		assert.InDelta(t, 1.0, got, 1e-12)
	})

	t.Run("no affiliations on either side", func(t *testing.T) {
		_, compared := sc.compareAffiliations(entity(), entity(aff("GAZPROM", "linked to")))
		assert.False(t, compared)
		_, compared = sc.compareAffiliations(entity(aff("GAZPROM", "linked to")), entity())
		assert.False(t, compared)
	})

	t.Run("names that normalize to nothing are skipped", func(t *testing.T) {
		got, compared := sc.compareAffiliations(
			entity(aff("...", "linked to")),
			entity(aff("GAZPROM", "linked to")),
		)
		assert.False(t, compared)
		assert.Zero(t, got)
	})
}
