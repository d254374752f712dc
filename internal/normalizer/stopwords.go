package normalizer

import (
	"fmt"
	"sort"
)

// FallbackLanguage is used when neither detection nor the country
// mapping yields a supported language.
const FallbackLanguage = "en"

// StopwordRegistry giữ các stopword set theo ngôn ngữ.
//
// Sets are loaded once from embedded data; lookups are read-only and
// safe for concurrent use.
type StopwordRegistry struct {
	sets map[string]map[string]struct{}
}

// NewStopwordRegistry builds the registry from the embedded YAML.
func NewStopwordRegistry() (*StopwordRegistry, error) {
	data, err := LoadStopwordData()
	if err != nil {
		return nil, fmt.Errorf("stopwords: %w", err)
	}
	if len(data.Stopwords[FallbackLanguage]) == 0 {
		return nil, fmt.Errorf("stopwords: embedded data missing %q set", FallbackLanguage)
	}

	reg := &StopwordRegistry{sets: make(map[string]map[string]struct{}, len(data.Stopwords))}
	for lang, words := range data.Stopwords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		reg.sets[lang] = set
	}
	return reg, nil
}

// Languages returns the supported language codes, sorted.
func (r *StopwordRegistry) Languages() []string {
	out := make([]string, 0, len(r.sets))
	for lang := range r.sets {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a stopword set exists for lang.
func (r *StopwordRegistry) Has(lang string) bool {
	_, ok := r.sets[lang]
	return ok
}

// IsStopword reports whether token belongs to the lang set. Numeric
// tokens are never stopwords.
func (r *StopwordRegistry) IsStopword(lang, token string) bool {
	if IsNumericToken(token) {
		return false
	}
	set, ok := r.sets[lang]
	if !ok {
		set = r.sets[FallbackLanguage]
	}
	_, hit := set[token]
	return hit
}

// Remove drops stopwords of the given language from tokens. Numeric
// tokens always survive. If removal would leave nothing, the original
// tokens are returned: an all-stopword name still has to be matchable.
func (r *StopwordRegistry) Remove(tokens []string, lang string) []string {
	if len(tokens) == 0 {
		return tokens
	}
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if r.IsStopword(lang, tok) {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return tokens
	}
	return kept
}
