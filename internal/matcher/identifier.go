package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
)

// Country agreement tiers for an identifier hit.
const (
	idScoreCountriesMatch = 1.0
	idScoreCountryMissing = 0.9
	idScoreCountriesDiff  = 0.7
)

// Vessel and aircraft registration fields ranked by how uniquely they
// identify the asset.
const (
	assetWeightIMO      = 15.0
	assetWeightCallSign = 12.0
	assetWeightMMSI     = 12.0
	assetWeightSerial   = 15.0
	assetWeightICAO     = 12.0
)

// compareIdentifiers covers government-issued IDs plus the registration
// identifiers vessels and aircraft carry. The piece score is the best
// evidence found across the identifier family.
func (sc *Scorer) compareIdentifiers(q, idx *models.Entity) (float64, int, bool) {
	best := 0.0
	fields := 0
	compared := false

	if gov, ok := sc.compareGovernmentIDs(q, idx); ok {
		compared = true
		fields++
		if gov > best {
			best = gov
		}
	}
	if asset, n, ok := compareAssetIdentifiers(q, idx); ok {
		compared = true
		fields += n
		if asset > best {
			best = asset
		}
	}
	return best, fields, compared
}

// compareGovernmentIDs looks for an identifier string shared by both
// sides, then grades the hit by issuing-country agreement. Identifier
// values arrive already uppercased with separators stripped.
func (sc *Scorer) compareGovernmentIDs(q, idx *models.Entity) (float64, bool) {
	if len(q.GovernmentIDs) == 0 || len(idx.GovernmentIDs) == 0 {
		return 0, false
	}

	best := 0.0
	for _, qid := range q.GovernmentIDs {
		if qid.Identifier == "" {
			continue
		}
		for _, iid := range idx.GovernmentIDs {
			if iid.Identifier == "" || qid.Identifier != iid.Identifier {
				continue
			}
			score := idScoreCountriesDiff
			switch {
			case qid.Country != "" && iid.Country != "" && strings.EqualFold(qid.Country, iid.Country):
				score = idScoreCountriesMatch
			case qid.Country == "" || iid.Country == "":
				score = idScoreCountryMissing
			}
			if score > best {
				best = score
			}
		}
	}
	return best, true
}

// compareAssetIdentifiers weighs vessel and aircraft registration
// fields present on both sides; equality earns the field's full weight.
func compareAssetIdentifiers(q, idx *models.Entity) (float64, int, bool) {
	var sum, weightSum float64
	fields := 0

	field := func(a, b string, weight float64) {
		if a == "" || b == "" {
			return
		}
		if strings.EqualFold(a, b) {
			sum += weight
		}
		weightSum += weight
		fields++
	}

	switch idx.Type {
	case models.EntityVessel:
		if q.Vessel == nil || idx.Vessel == nil {
			return 0, 0, false
		}
		field(q.Vessel.IMONumber, idx.Vessel.IMONumber, assetWeightIMO)
		field(q.Vessel.CallSign, idx.Vessel.CallSign, assetWeightCallSign)
		field(q.Vessel.MMSI, idx.Vessel.MMSI, assetWeightMMSI)
	case models.EntityAircraft:
		if q.Aircraft == nil || idx.Aircraft == nil {
			return 0, 0, false
		}
		field(q.Aircraft.SerialNumber, idx.Aircraft.SerialNumber, assetWeightSerial)
		field(q.Aircraft.ICAOCode, idx.Aircraft.ICAOCode, assetWeightICAO)
	default:
		return 0, 0, false
	}

	if weightSum == 0 {
		return 0, 0, false
	}
	return sum / weightSum, fields, true
}
