package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist-screener/app/models"
)

// Identifier trong test đã ở dạng chuẩn hóa: chữ hoa, bỏ ngăn cách,
// nước về tên chuẩn thường.
func TestCompareGovernmentIDs(t *testing.T) {
	sc, _ := newTestScorer(t)

	tests := []struct {
		name     string
		q, i     []models.GovernmentID
		expected float64
		compared bool
	}{
		{
			name:     "value and country agree",
			q:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567", Country: "venezuela"}},
			i:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567", Country: "venezuela"}},
			expected: 1.0,
			compared: true,
		},
		{
			name:     "country missing on one side",
			q:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567"}},
			i:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567", Country: "venezuela"}},
			expected: 0.9,
			compared: true,
		},
		{
			name:     "countries disagree",
			q:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567", Country: "russia"}},
			i:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567", Country: "venezuela"}},
			expected: 0.7,
			compared: true,
		},
		{
			name:     "no shared value is contradicting evidence",
			q:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567"}},
			i:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "999999999"}},
			expected: 0,
			compared: true,
		},
		{
			name:     "document type does not gate the hit",
			q:        []models.GovernmentID{{Type: models.IDTaxID, Identifier: "7744001497", Country: "russia"}},
			i:        []models.GovernmentID{{Type: models.IDRegistration, Identifier: "7744001497", Country: "russia"}},
			expected: 1.0,
			compared: true,
		},
		{
			name:     "empty lists",
			q:        nil,
			i:        []models.GovernmentID{{Type: models.IDPassport, Identifier: "001234567"}},
			expected: 0,
			compared: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &models.Entity{GovernmentIDs: tt.q}
			i := &models.Entity{GovernmentIDs: tt.i}
			score, compared := sc.compareGovernmentIDs(q, i)
			assert.Equal(t, tt.compared, compared)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestCompareAssetIdentifiers(t *testing.T) {
	t.Run("vessel full agreement", func(t *testing.T) {
		v := &models.Vessel{IMONumber: "8133530", CallSign: "HMZT8", MMSI: "445114000"}
		q := &models.Entity{Type: models.EntityVessel, Vessel: v}
		i := &models.Entity{Type: models.EntityVessel, Vessel: v}
		score, fields, compared := compareAssetIdentifiers(q, i)
		assert.True(t, compared)
		assert.Equal(t, 3, fields)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("vessel partial agreement weights the miss", func(t *testing.T) {
		q := &models.Entity{Type: models.EntityVessel, Vessel: &models.Vessel{IMONumber: "8133530", CallSign: "XXXX1"}}
		i := &models.Entity{Type: models.EntityVessel, Vessel: &models.Vessel{IMONumber: "8133530", CallSign: "HMZT8", MMSI: "445114000"}}
		score, fields, compared := compareAssetIdentifiers(q, i)
		assert.True(t, compared)
		assert.Equal(t, 2, fields, "MMSI missing on the query side is not judged")
		// IMO 15 trúng, call sign 12 trượt.
		assert.InDelta(t, 15.0/27.0, score, 1e-9)
	})

	t.Run("aircraft serial and icao", func(t *testing.T) {
		a := &models.Aircraft{SerialNumber: "14501", ICAOCode: "EP-GOL"}
		q := &models.Entity{Type: models.EntityAircraft, Aircraft: a}
		i := &models.Entity{Type: models.EntityAircraft, Aircraft: a}
		score, fields, compared := compareAssetIdentifiers(q, i)
		assert.True(t, compared)
		assert.Equal(t, 2, fields)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("non-asset types are out of scope", func(t *testing.T) {
		q := &models.Entity{Type: models.EntityBusiness}
		i := &models.Entity{Type: models.EntityBusiness}
		_, _, compared := compareAssetIdentifiers(q, i)
		assert.False(t, compared)
	})
}

func TestCompareIdentifiersCombinesFamilies(t *testing.T) {
	sc, _ := newTestScorer(t)

	q := &models.Entity{
		Type:          models.EntityVessel,
		Vessel:        &models.Vessel{IMONumber: "8133530"},
		GovernmentIDs: []models.GovernmentID{{Type: models.IDRegistration, Identifier: "REG111"}},
	}
	i := &models.Entity{
		Type:          models.EntityVessel,
		Vessel:        &models.Vessel{IMONumber: "8133530"},
		GovernmentIDs: []models.GovernmentID{{Type: models.IDRegistration, Identifier: "REG222"}},
	}

	score, fields, compared := sc.compareIdentifiers(q, i)
	assert.True(t, compared)
	assert.Equal(t, 2, fields, "one government-id family plus one registry field")
	assert.InDelta(t, 1.0, score, 1e-9, "the IMO hit outweighs the failed document lookup")
}
