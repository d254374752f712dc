package normalizer

import (
	"fmt"
	"unicode"

	"golang.org/x/text/language"
)

// Undetermined is returned when no language signal was found.
const Undetermined = "und"

// latinCandidates is the fixed vote order for Latin-script text; the
// order makes tie-breaking deterministic.
var latinCandidates = []string{"en", "es", "fr", "de"}

// LanguageDetector infers the language of a name so the right stopword
// set gets applied. Detection is two-stage: script counting for
// Cyrillic/Arabic/Han text, stopword voting for Latin text. When both
// are inconclusive, a country hint picks the national language.
type LanguageDetector struct {
	registry  *StopwordRegistry
	countries *CountryIndex
	byCountry map[string]string

	supported []language.Tag
	matcher   language.Matcher
}

// NewLanguageDetector wires the detector against a stopword registry
// and the country index.
func NewLanguageDetector(registry *StopwordRegistry, countries *CountryIndex) (*LanguageDetector, error) {
	if registry == nil || countries == nil {
		return nil, fmt.Errorf("language: stopword registry and country index are required")
	}
	data, err := LoadCountryData()
	if err != nil {
		return nil, fmt.Errorf("language: %w", err)
	}

	var supported []language.Tag
	for _, code := range registry.Languages() {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
	}
	if len(supported) == 0 {
		return nil, fmt.Errorf("language: no parsable stopword languages")
	}

	return &LanguageDetector{
		registry:  registry,
		countries: countries,
		byCountry: data.Languages,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// Detect returns the most likely language of text and a confidence in
// [0,1]. Latin-script confidence is the stopword hit ratio, so plain
// name tokens usually come back low: that is expected, the country
// fallback exists for exactly that case.
func (d *LanguageDetector) Detect(text string) (string, float64) {
	if lang, conf := detectScript(text); lang != "" {
		return lang, conf
	}

	tokens := Tokenize(LowerAndStripPunctuation(text))
	if len(tokens) == 0 {
		return Undetermined, 0
	}

	best, bestHits := Undetermined, 0
	for _, cand := range latinCandidates {
		if !d.registry.Has(cand) {
			continue
		}
		hits := 0
		for _, tok := range tokens {
			if d.registry.IsStopword(cand, tok) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cand, hits
		}
	}
	if bestHits == 0 {
		return Undetermined, 0
	}
	return best, float64(bestHits) / float64(len(tokens))
}

// Resolve applies the full decision rule: trust detection at
// confidence ≥ 0.5, otherwise map the country to its primary language,
// otherwise fall back to English.
func (d *LanguageDetector) Resolve(text, country string) string {
	lang, conf := d.Detect(text)
	if lang != Undetermined && conf >= 0.5 {
		return lang
	}
	if country != "" {
		name := d.countries.Normalize(country)
		if code, ok := d.byCountry[name]; ok {
			if canon, ok := d.Canonical(code); ok {
				return canon
			}
		}
	}
	return FallbackLanguage
}

// Canonical snaps an arbitrary language code ("zh-CN", "en-GB") onto
// the supported stopword set.
func (d *LanguageDetector) Canonical(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, idx, conf := d.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return d.supported[idx].String(), true
}

func detectScript(text string) (string, float64) {
	var letters, cyrillic, arabic, han int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Han, r):
			han++
		}
	}
	if letters == 0 {
		return "", 0
	}
	if ratio := float64(cyrillic) / float64(letters); ratio >= 0.5 {
		return "ru", ratio
	}
	if ratio := float64(arabic) / float64(letters); ratio >= 0.5 {
		return "ar", ratio
	}
	if ratio := float64(han) / float64(letters); ratio >= 0.5 {
		return "zh", ratio
	}
	return "", 0
}
