package matcher

import (
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/trace"
)

// nameEarlyExit is the floor under which a candidate is dropped before
// any other comparator runs.
const nameEarlyExit = 0.4

type nameResult struct {
	combined       float64
	primary        float64
	alt            float64
	exact          bool
	matchingTokens int
	fieldsCompared int
}

// compareNames scores the primary-name pair over word combinations and
// every alt-name pairing, then blends the two. Primary and alt scores
// stay separate in the breakdown so an AKA hit is distinguishable from
// a primary hit.
func (sc *Scorer) compareNames(q, idx *models.Entity, tr trace.Context) nameResult {
	qp, ip := q.Prepared, idx.Prepared
	res := nameResult{}

	if len(qp.NameTokens) > 0 && len(ip.NameTokens) > 0 {
		res.primary = sc.sim.BestPairOverCombinations(qp.NameCombinations, ip.NameCombinations)
		res.fieldsCompared++
	}
	if tr.Enabled() {
		tr.RecordData(trace.PhaseNameComparison, "primary name scored", func() map[string]any {
			return map[string]any{
				"query":   qp.NormalizedName,
				"indexed": ip.NormalizedName,
				"score":   res.primary,
			}
		})
	}

	if len(qp.AltNameTokens) > 0 || len(ip.AltNameTokens) > 0 {
		res.alt = sc.bestAltScore(qp, ip)

		// Registered trade styles reward exact word hits; engaged only
		// when favoritism is configured above zero.
		if sc.cfg.ExactMatchFavoritism > 0 &&
			(idx.Type == models.EntityBusiness || idx.Type == models.EntityOrganization) {
			for _, alt := range ip.NormalizedAltNames {
				fav := sc.sim.JaroWinklerWithFavoritism(alt, qp.NormalizedName, sc.cfg.ExactMatchFavoritism)
				if fav > res.alt {
					res.alt = fav
				}
			}
		}
		res.fieldsCompared++
		if tr.Enabled() {
			tr.RecordData(trace.PhaseAltNameComparison, "alt names scored", func() map[string]any {
				return map[string]any{
					"query_alts":   len(qp.AltNameTokens),
					"indexed_alts": len(ip.AltNameTokens),
					"score":        res.alt,
				}
			})
		}
	}

	switch {
	case res.primary > 0 && res.alt > 0:
		res.combined = (res.primary + res.alt) / 2
	case res.alt > 0:
		res.combined = res.alt
	default:
		res.combined = res.primary
	}

	res.exact = sc.isExactName(qp, ip)
	res.matchingTokens = countMatchingTokens(qp.NameTokens, ip)
	return res
}

// bestAltScore is the max over every pairing that touches an alt name:
// query primary against indexed alts, query alts against the indexed
// primary, and alts against alts.
func (sc *Scorer) bestAltScore(qp, ip *models.PreparedFields) float64 {
	best := 0.0
	score := func(a, b []string) {
		if len(a) == 0 || len(b) == 0 {
			return
		}
		if s := sc.sim.BestPairTokens(a, b); s > best {
			best = s
		}
	}

	for _, alt := range ip.AltNameTokens {
		score(qp.NameTokens, alt)
	}
	for _, alt := range qp.AltNameTokens {
		score(alt, ip.NameTokens)
		for _, ialt := range ip.AltNameTokens {
			score(alt, ialt)
		}
	}
	return best
}

func (sc *Scorer) isExactName(qp, ip *models.PreparedFields) bool {
	if qp.NormalizedName == "" {
		return false
	}
	if qp.NormalizedName == ip.NormalizedName {
		return true
	}
	for _, alt := range ip.NormalizedAltNames {
		if qp.NormalizedName == alt {
			return true
		}
	}
	return false
}

// countMatchingTokens counts query tokens that appear verbatim among
// the candidate's primary or alt tokens.
func countMatchingTokens(queryTokens []string, ip *models.PreparedFields) int {
	if len(queryTokens) == 0 {
		return 0
	}
	indexed := make(map[string]struct{}, len(ip.NameTokens))
	for _, t := range ip.NameTokens {
		indexed[t] = struct{}{}
	}
	for _, alt := range ip.AltNameTokens {
		for _, t := range alt {
			indexed[t] = struct{}{}
		}
	}

	n := 0
	for _, t := range queryTokens {
		if _, ok := indexed[t]; ok {
			n++
		}
	}
	return n
}
