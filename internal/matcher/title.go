package matcher

import (
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/normalizer"
)

const titleEarlyExit = 0.92

// titleAbbreviations expands the job-title shorthand that appears on
// list entries so "CEO" and "Chief Executive Officer" compare as equals.
var titleAbbreviations = map[string]string{
	"ceo":   "chief executive officer",
	"cfo":   "chief financial officer",
	"coo":   "chief operating officer",
	"cto":   "chief technology officer",
	"pres":  "president",
	"vp":    "vice president",
	"dir":   "director",
	"gen":   "general",
	"sec":   "secretary",
	"exec":  "executive",
	"mgr":   "manager",
	"sr":    "senior",
	"jr":    "junior",
	"asst":  "assistant",
	"assoc": "associate",
	"dep":   "deputy",
	"min":   "minister",
	"adm":   "administrator",
}

// normalizeTitle lowercases, strips punctuation except hyphens, expands
// abbreviations, and drops single-character tokens.
func normalizeTitle(title string) []string {
	cleaned := normalizer.LowerAndStripPunctuation(normalizer.StripDiacritics(title))
	tokens := normalizer.Tokenize(cleaned)

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if full, ok := titleAbbreviations[tok]; ok {
			out = append(out, normalizer.Tokenize(full)...)
			continue
		}
		if len(tok) >= 2 {
			out = append(out, tok)
		}
	}
	return out
}

// compareTitles scores person titles pairwise and keeps the best pair.
// A flat 0.1 penalty applies per token-count difference so "director"
// does not fully match "deputy director of finance".
func (sc *Scorer) compareTitles(q, idx *models.Entity) (float64, bool) {
	if q.Person == nil || idx.Person == nil {
		return 0, false
	}
	if len(q.Person.Titles) == 0 || len(idx.Person.Titles) == 0 {
		return 0, false
	}

	best := 0.0
	for _, qt := range q.Person.Titles {
		qTokens := normalizeTitle(qt)
		if len(qTokens) == 0 {
			continue
		}
		for _, it := range idx.Person.Titles {
			iTokens := normalizeTitle(it)
			if len(iTokens) == 0 {
				continue
			}

			score := sc.sim.BestPairTokens(qTokens, iTokens)
			diff := len(qTokens) - len(iTokens)
			if diff < 0 {
				diff = -diff
			}
			score = clamp01(score - 0.1*float64(diff))

			if score > best {
				best = score
			}
			if best >= titleEarlyExit {
				return best, true
			}
		}
	}
	return best, true
}
