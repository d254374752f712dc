package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist-screener/app/models"
)

func TestComparePrograms(t *testing.T) {
	tests := []struct {
		name     string
		q, i     *models.Entity
		expected float64
		compared bool
	}{
		{
			name:     "full overlap",
			q:        &models.Entity{Programs: []string{"UKRAINE-EO13662"}},
			i:        &models.Entity{Programs: []string{"ukraine-eo13662"}},
			expected: 1.0,
			compared: true,
		},
		{
			name:     "partial overlap uses the longer list",
			q:        &models.Entity{Programs: []string{"SDGT"}},
			i:        &models.Entity{Programs: []string{"SDGT", "NPWMD"}},
			expected: 0.5,
			compared: true,
		},
		{
			name: "secondary sanctions flag mismatch discounts",
			q: &models.Entity{
				Programs:      []string{"SDGT"},
				SanctionsInfo: &models.SanctionsInfo{Secondary: false},
			},
			i: &models.Entity{
				Programs:      []string{"SDGT", "NPWMD"},
				SanctionsInfo: &models.SanctionsInfo{Secondary: true},
			},
			expected: 0.4,
			compared: true,
		},
		{
			name:     "no overlap",
			q:        &models.Entity{Programs: []string{"CUBA"}},
			i:        &models.Entity{Programs: []string{"SDGT"}},
			expected: 0,
			compared: true,
		},
		{
			name:     "one side empty",
			q:        &models.Entity{},
			i:        &models.Entity{Programs: []string{"SDGT"}},
			expected: 0,
			compared: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, compared := comparePrograms(tt.q, tt.i)
			assert.Equal(t, tt.compared, compared)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestCompareHistorical(t *testing.T) {
	sc, _ := newTestScorer(t)

	t.Run("former name hit", func(t *testing.T) {
		q := &models.Entity{HistoricalInfo: []models.HistoricalInfo{{Type: "former name", Value: "Bank GPB"}}}
		i := &models.Entity{HistoricalInfo: []models.HistoricalInfo{{Type: "former name", Value: "BANK GPB"}}}
		score, compared := sc.compareHistorical(q, i)
		assert.True(t, compared)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("different record types never pair", func(t *testing.T) {
		q := &models.Entity{HistoricalInfo: []models.HistoricalInfo{{Type: "former name", Value: "Bank GPB"}}}
		i := &models.Entity{HistoricalInfo: []models.HistoricalInfo{{Type: "former flag", Value: "Bank GPB"}}}
		_, compared := sc.compareHistorical(q, i)
		assert.False(t, compared)
	})

	t.Run("empty lists", func(t *testing.T) {
		_, compared := sc.compareHistorical(&models.Entity{}, &models.Entity{})
		assert.False(t, compared)
	})
}

func TestCompareSupportingInfoPoolsSignals(t *testing.T) {
	sc, _ := newTestScorer(t)

	t.Run("zero-score signals are excluded from the mean", func(t *testing.T) {
		q := &models.Entity{
			Type:     models.EntityPerson,
			Person:   &models.Person{Titles: []string{"Boss"}},
			Programs: []string{"VENEZUELA"},
		}
		i := &models.Entity{
			Type:     models.EntityPerson,
			Person:   &models.Person{Titles: []string{"Quartermaster"}},
			Programs: []string{"VENEZUELA"},
		}
		res := sc.compareSupportingInfo(q, i)
		assert.True(t, res.compared)
		assert.Equal(t, 2, res.fields)
		assert.InDelta(t, 1.0, res.score, 1e-9, "the failed title lookup must not drag the program hit down")
	})

	t.Run("historical hit raises the flag", func(t *testing.T) {
		q := &models.Entity{
			Type:           models.EntityBusiness,
			HistoricalInfo: []models.HistoricalInfo{{Type: "former name", Value: "Bank GPB"}},
		}
		i := &models.Entity{
			Type:           models.EntityBusiness,
			HistoricalInfo: []models.HistoricalInfo{{Type: "former name", Value: "BANK GPB"}},
		}
		res := sc.compareSupportingInfo(q, i)
		assert.True(t, res.compared)
		assert.True(t, res.histMatched)
	})

	t.Run("nothing to pool", func(t *testing.T) {
		res := sc.compareSupportingInfo(&models.Entity{Type: models.EntityPerson}, &models.Entity{Type: models.EntityPerson})
		assert.False(t, res.compared)
		assert.Zero(t, res.fields)
	})
}
