package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/normalizer"
)

// secondarySanctionsPenalty discounts a program overlap when one side
// is flagged for secondary sanctions and the other is not.
const secondarySanctionsPenalty = 0.8

// historicalMatchThreshold marks a former-name hit strong enough to
// excuse a weak current-name token overlap.
const historicalMatchThreshold = 0.85

type supportingResult struct {
	score       float64
	fields      int
	compared    bool
	histMatched bool
}

// compareSupportingInfo pools the weaker corroborating signals into one
// piece: sanctions-program overlap, historical values, person titles,
// and business or organization affiliations. Signals that scored zero
// are excluded from the mean so absent evidence does not drag down
// present evidence.
func (sc *Scorer) compareSupportingInfo(q, idx *models.Entity) supportingResult {
	var res supportingResult
	var scores []float64

	if s, ok := comparePrograms(q, idx); ok {
		res.fields++
		if s > 0 {
			scores = append(scores, s)
		}
	}
	if s, ok := sc.compareHistorical(q, idx); ok {
		res.fields++
		if s > 0 {
			scores = append(scores, s)
		}
		res.histMatched = s >= historicalMatchThreshold
	}
	if idx.Type == models.EntityPerson {
		if s, ok := sc.compareTitles(q, idx); ok {
			res.fields++
			if s > 0 {
				scores = append(scores, s)
			}
		}
	}
	if idx.Type == models.EntityBusiness || idx.Type == models.EntityOrganization {
		if s, ok := sc.compareAffiliations(q, idx); ok {
			res.fields++
			if s > 0 {
				scores = append(scores, s)
			}
		}
	}

	if res.fields == 0 {
		return res
	}
	res.compared = true
	if len(scores) == 0 {
		return res
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	res.score = clamp01(sum / float64(len(scores)))
	return res
}

// comparePrograms measures case-insensitive overlap between sanctions
// program lists, discounted when the secondary-sanctions flags differ.
func comparePrograms(q, idx *models.Entity) (float64, bool) {
	if len(q.Programs) == 0 || len(idx.Programs) == 0 {
		return 0, false
	}

	indexed := make(map[string]struct{}, len(idx.Programs))
	for _, p := range idx.Programs {
		indexed[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	hits := 0
	for _, p := range q.Programs {
		if _, ok := indexed[strings.ToLower(strings.TrimSpace(p))]; ok {
			hits++
		}
	}

	denom := len(q.Programs)
	if len(idx.Programs) > denom {
		denom = len(idx.Programs)
	}
	score := float64(hits) / float64(denom)

	if q.SanctionsInfo != nil && idx.SanctionsInfo != nil && q.SanctionsInfo.Secondary != idx.SanctionsInfo.Secondary {
		score *= secondarySanctionsPenalty
	}
	return score, true
}

// compareHistorical pairs historical records of the same type (former
// names, former flags) and keeps the best fuzzy hit.
func (sc *Scorer) compareHistorical(q, idx *models.Entity) (float64, bool) {
	if len(q.HistoricalInfo) == 0 || len(idx.HistoricalInfo) == 0 {
		return 0, false
	}

	best := 0.0
	compared := false
	for _, qh := range q.HistoricalInfo {
		if qh.Value == "" {
			continue
		}
		qv := normalizer.LowerAndStripPunctuation(normalizer.StripDiacritics(qh.Value))
		for _, ih := range idx.HistoricalInfo {
			if ih.Value == "" || !strings.EqualFold(qh.Type, ih.Type) {
				continue
			}
			compared = true
			iv := normalizer.LowerAndStripPunctuation(normalizer.StripDiacritics(ih.Value))
			if s := sc.sim.JaroWinkler(qv, iv); s > best {
				best = s
			}
		}
	}
	return best, compared
}
