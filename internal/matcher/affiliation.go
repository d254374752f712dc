package matcher

import (
	"strings"

	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/normalizer"
)

// Affiliation relationship types collapse into four groups; types in
// the same group are treated as related even when the labels differ.
type affiliationGroup int

const (
	groupNone affiliationGroup = iota
	groupOwnership
	groupControl
	groupAssociation
	groupLeadership
)

var affiliationTaxonomy = map[string]affiliationGroup{
	"owned by":                   groupOwnership,
	"owner of":                   groupOwnership,
	"subsidiary of":              groupOwnership,
	"parent of":                  groupOwnership,
	"holding of":                 groupOwnership,
	"shareholder of":             groupOwnership,
	"majority owned by":          groupOwnership,
	"controlled by":              groupControl,
	"controls":                   groupControl,
	"operated by":                groupControl,
	"operator of":                groupControl,
	"managed by":                 groupControl,
	"manager of":                 groupControl,
	"acting for or on behalf of": groupControl,
	"linked to":                  groupAssociation,
	"associated with":            groupAssociation,
	"affiliated with":            groupAssociation,
	"related to":                 groupAssociation,
	"member of":                  groupAssociation,
	"providing support to":       groupAssociation,
	"front for":                  groupAssociation,
	"led by":                     groupLeadership,
	"leader of":                  groupLeadership,
	"director of":                groupLeadership,
	"executive of":               groupLeadership,
	"official of":                groupLeadership,
}

// affiliationSuffixes is deliberately smaller than the name pipeline's
// suffix list: affiliation strings are short and aggressive stripping
// would erase too much signal.
var affiliationSuffixes = map[string]struct{}{
	"inc":         {},
	"ltd":         {},
	"llc":         {},
	"corp":        {},
	"co":          {},
	"company":     {},
	"corporation": {},
}

func normalizeAffiliationName(name string) []string {
	cleaned := normalizer.LowerAndStripPunctuation(normalizer.StripDiacritics(name))
	tokens := normalizer.Tokenize(cleaned)
	for len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		if _, ok := affiliationSuffixes[last]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// affiliationTypeAdjust returns the bonus applied on top of the name
// score: exact type hit, same-group hit, or a cross-group mismatch.
// Unknown or missing types adjust nothing.
func affiliationTypeAdjust(qType, iType string) float64 {
	qt := strings.ToLower(strings.TrimSpace(qType))
	it := strings.ToLower(strings.TrimSpace(iType))
	if qt == "" || it == "" {
		return 0
	}
	if qt == it {
		return 0.15
	}
	qg, qok := affiliationTaxonomy[qt]
	ig, iok := affiliationTaxonomy[it]
	if !qok || !iok {
		return 0
	}
	if qg == ig {
		return 0.08
	}
	return -0.15
}

// compareAffiliations scores business and organization relationship
// lists. Each query affiliation keeps its best candidate pairing
// (ties broken by the larger type adjustment), and the per-pair scores
// merge with a cubic-over-square mean so one strong link dominates
// several weak ones.
func (sc *Scorer) compareAffiliations(q, idx *models.Entity) (float64, bool) {
	if len(q.Affiliations) == 0 || len(idx.Affiliations) == 0 {
		return 0, false
	}

	scores := make([]float64, 0, len(q.Affiliations))
	for _, qa := range q.Affiliations {
		qTokens := normalizeAffiliationName(qa.EntityName)
		if len(qTokens) == 0 {
			continue
		}

		best, bestAdjust := 0.0, -1.0
		for _, ia := range idx.Affiliations {
			iTokens := normalizeAffiliationName(ia.EntityName)
			if len(iTokens) == 0 {
				continue
			}
			adjust := affiliationTypeAdjust(qa.Type, ia.Type)
			score := clamp01(sc.sim.BestPairTokens(qTokens, iTokens) + adjust)
			if score > best || (score == best && adjust > bestAdjust) {
				best, bestAdjust = score, adjust
			}
		}
		scores = append(scores, best)
	}
	if len(scores) == 0 {
		return 0, false
	}

	var num, den float64
	for _, s := range scores {
		num += s * s * s
		den += s * s
	}
	if den == 0 {
		return 0, true
	}
	return clamp01(num / den), true
}
