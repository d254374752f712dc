package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
)

const addressEarlyExit = 0.92

// Street lines carry the most signal, city and country anchor the
// location, postal codes and states confirm it.
const (
	addrWeightLine1   = 5.0
	addrWeightCity    = 4.0
	addrWeightCountry = 4.0
	addrWeightPostal  = 3.0
	addrWeightLine2   = 2.0
	addrWeightState   = 2.0
)

// compareAddresses keeps the best pairwise score across both address
// lists. Fields are weighted and only count when present on both sides,
// so a city-only query is judged on the city alone.
func (sc *Scorer) compareAddresses(q, idx *models.Entity) (float64, int, bool) {
	if len(q.Addresses) == 0 || len(idx.Addresses) == 0 {
		return 0, 0, false
	}

	best, bestFields, compared := 0.0, 0, false
	for _, qa := range q.Addresses {
		if qa.Empty() {
			continue
		}
		for _, ia := range idx.Addresses {
			if ia.Empty() {
				continue
			}
			score, fields := sc.compareAddressPair(qa, ia)
			if fields == 0 {
				continue
			}
			compared = true
			if score > best {
				best, bestFields = score, fields
			}
			if best >= addressEarlyExit {
				return best, bestFields, true
			}
		}
	}
	return best, bestFields, compared
}

// compareAddressPair weights fuzzy street/city similarity against exact
// state, postal, and country equality.
func (sc *Scorer) compareAddressPair(q, i models.Address) (float64, int) {
	var sum, weightSum float64
	fields := 0

	fuzzy := func(a, b string, weight float64) {
		if a == "" || b == "" {
			return
		}
		sum += weight * sc.sim.JaroWinkler(a, b)
		weightSum += weight
		fields++
	}
	exact := func(a, b string, weight float64) {
		if a == "" || b == "" {
			return
		}
		if strings.EqualFold(a, b) {
			sum += weight
		}
		weightSum += weight
		fields++
	}

	fuzzy(q.Line1, i.Line1, addrWeightLine1)
	fuzzy(q.Line2, i.Line2, addrWeightLine2)
	fuzzy(q.City, i.City, addrWeightCity)
	exact(q.State, i.State, addrWeightState)
	exact(q.PostalCode, i.PostalCode, addrWeightPostal)
	exact(q.Country, i.Country, addrWeightCountry)

	if weightSum == 0 {
		return 0, 0
	}
	return sum / weightSum, fields
}
