package normalizer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/phonetic"
)

// EntityNormalizer implements the preparation pipeline that every
// entity passes exactly once before scoring: list records at install
// time, queries at request time. The pipeline rewrites contact,
// address, identifier and gender fields into canonical form and fills
// PreparedFields; the input entity itself is never mutated.
type EntityNormalizer struct {
	stopwords *StopwordRegistry
	countries *CountryIndex
	detector  *LanguageDetector
	logger    *zap.Logger

	companySuffixes map[string]struct{}
	trunkPrefixes   []string
	keepStopwords   bool

	phoneSymbols *strings.Replacer
	idSymbols    *strings.Replacer
	addrSymbols  *strings.Replacer
	genderMale   map[string]struct{}
	genderFemale map[string]struct{}
}

// NewEntityNormalizer tạo pipeline chuẩn hóa entity.
func NewEntityNormalizer(cfg *config.MatchConfig, logger *zap.Logger) (*EntityNormalizer, error) {
	if cfg == nil {
		return nil, config.ErrMissingConfig
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stopwords, err := NewStopwordRegistry()
	if err != nil {
		return nil, err
	}
	countries, err := NewCountryIndex()
	if err != nil {
		return nil, err
	}
	detector, err := NewLanguageDetector(stopwords, countries)
	if err != nil {
		return nil, err
	}
	rules, err := LoadRulesData()
	if err != nil {
		return nil, fmt.Errorf("normalizer: %w", err)
	}

	n := &EntityNormalizer{
		stopwords:     stopwords,
		countries:     countries,
		detector:      detector,
		logger:        logger,
		keepStopwords: cfg.KeepStopwords,
		trunkPrefixes: rules.TrunkPrefixes,
	}
	n.initializeMaps(rules)

	logger.Info("entity normalizer ready",
		zap.Strings("stopword_languages", stopwords.Languages()),
		zap.Int("company_suffixes", len(n.companySuffixes)),
		zap.Bool("keep_stopwords", n.keepStopwords))
	return n, nil
}

func (n *EntityNormalizer) initializeMaps(rules *RulesData) {
	n.companySuffixes = make(map[string]struct{}, len(rules.CompanySuffixes))
	for _, s := range rules.CompanySuffixes {
		n.companySuffixes[LowerAndStripPunctuation(s)] = struct{}{}
	}

	n.phoneSymbols = strings.NewReplacer("+", "", "-", "", "(", "", ")", "", ".", "", " ", "")
	n.idSymbols = strings.NewReplacer(" ", "", "-", "")
	n.addrSymbols = strings.NewReplacer(",", " ", ".", " ", "#", " ")

	n.genderMale = map[string]struct{}{"m": {}, "male": {}, "man": {}, "guy": {}}
	n.genderFemale = map[string]struct{}{"f": {}, "female": {}, "woman": {}, "gal": {}, "girl": {}}
}

// Normalize returns a prepared deep copy of e. The pipeline is
// idempotent: feeding its output back in produces an identical entity.
func (n *EntityNormalizer) Normalize(e *models.Entity) (*models.Entity, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	out := e.Clone()

	// The first address country doubles as the language hint for names
	// whose text alone is inconclusive.
	fallbackCountry := ""
	for _, a := range e.Addresses {
		if a.Country != "" {
			fallbackCountry = n.countries.Normalize(a.Country)
			break
		}
	}

	// Bước 1-3: names → tokens, combinations, language, phonetic class
	primaryTokens, lang := n.NormalizeName(out.Name, fallbackCountry)

	altNames := make([]string, 0, len(out.AltNames))
	altTokens := make([][]string, 0, len(out.AltNames))
	seenAlts := make(map[string]struct{}, len(out.AltNames))
	for _, alt := range out.AltNames {
		tokens, _ := n.NormalizeName(alt, fallbackCountry)
		joined := strings.Join(tokens, " ")
		if joined == "" {
			continue
		}
		if _, dup := seenAlts[joined]; dup {
			continue
		}
		seenAlts[joined] = struct{}{}
		altNames = append(altNames, joined)
		altTokens = append(altTokens, tokens)
	}

	// Bước 4: phone and fax
	if out.Contact != nil {
		out.Contact.PhoneNumber = n.NormalizePhone(out.Contact.PhoneNumber)
		out.Contact.FaxNumber = n.NormalizePhone(out.Contact.FaxNumber)
		out.Contact.EmailAddress = strings.ToLower(strings.TrimSpace(out.Contact.EmailAddress))
	}

	// Bước 5: addresses
	for i := range out.Addresses {
		out.Addresses[i] = n.NormalizeAddress(out.Addresses[i])
	}

	// Bước 6: gender
	if out.Person != nil {
		out.Person.Gender = n.NormalizeGender(out.Person.Gender)
	}

	// Bước 7: identifiers, including vessel and aircraft registry fields
	for i := range out.GovernmentIDs {
		out.GovernmentIDs[i].Identifier = n.NormalizeIdentifier(out.GovernmentIDs[i].Identifier)
		out.GovernmentIDs[i].Country = n.countries.Normalize(out.GovernmentIDs[i].Country)
	}
	if out.Vessel != nil {
		out.Vessel.IMONumber = n.NormalizeIdentifier(out.Vessel.IMONumber)
		out.Vessel.CallSign = n.NormalizeIdentifier(out.Vessel.CallSign)
		out.Vessel.MMSI = n.NormalizeIdentifier(out.Vessel.MMSI)
	}
	if out.Aircraft != nil {
		out.Aircraft.SerialNumber = n.NormalizeIdentifier(out.Aircraft.SerialNumber)
		out.Aircraft.ICAOCode = n.NormalizeIdentifier(out.Aircraft.ICAOCode)
	}

	// Bước 8: prepared fields
	out.Prepared = &models.PreparedFields{
		NormalizedName:     strings.Join(primaryTokens, " "),
		NormalizedAltNames: altNames,
		NameTokens:         primaryTokens,
		AltNameTokens:      altTokens,
		NameCombinations:   GenerateWordCombinations(primaryTokens),
		DetectedLanguage:   lang,
		PhoneticClass:      phonetic.ClassOf(primaryTokens),
	}
	return out, nil
}

// NormalizeName runs the name sub-pipeline and returns the surviving
// tokens plus the language that drove stopword removal.
func (n *EntityNormalizer) NormalizeName(name, fallbackCountry string) ([]string, string) {
	reordered := ReorderLastFirst(name)
	cleaned := LowerAndStripPunctuation(StripApostrophes(reordered))
	tokens := n.stripCompanySuffixes(Tokenize(cleaned))

	lang := n.detector.Resolve(strings.Join(tokens, " "), fallbackCountry)
	if !n.keepStopwords {
		tokens = n.stopwords.Remove(tokens, lang)
	}
	return tokens, lang
}

// ReorderLastFirst rewrites the "LAST, FIRST" listing convention to
// natural order. Only single-comma names are touched.
func ReorderLastFirst(name string) string {
	if strings.Count(name, ",") != 1 {
		return name
	}
	parts := strings.SplitN(name, ",", 2)
	last, first := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if last == "" || first == "" {
		return name
	}
	return first + " " + last
}

// stripCompanySuffixes drops legal-form tokens from the tail until none
// remain, always keeping at least one token.
func (n *EntityNormalizer) stripCompanySuffixes(tokens []string) []string {
	for len(tokens) > 1 {
		if _, ok := n.companySuffixes[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// NormalizePhone keeps only digits and drops international and trunk
// dialing prefixes, repeatedly, so stacked prefixes still reduce.
func (n *EntityNormalizer) NormalizePhone(phone string) string {
	digits := n.phoneSymbols.Replace(strings.TrimSpace(phone))
	for {
		stripped := false
		for _, prefix := range n.trunkPrefixes {
			if len(digits) > len(prefix) && strings.HasPrefix(digits, prefix) {
				digits = digits[len(prefix):]
				stripped = true
				break
			}
		}
		if !stripped {
			return digits
		}
	}
}

// NormalizeAddress canonicalizes one address: lowercase, the
// separators , . # turned into spaces, whitespace collapsed, country
// resolved through the ISO table.
func (n *EntityNormalizer) NormalizeAddress(a models.Address) models.Address {
	return models.Address{
		Line1:      n.normalizeAddressField(a.Line1),
		Line2:      n.normalizeAddressField(a.Line2),
		City:       n.normalizeAddressField(a.City),
		State:      n.normalizeAddressField(a.State),
		PostalCode: n.normalizeAddressField(a.PostalCode),
		Country:    n.countries.Normalize(a.Country),
	}
}

func (n *EntityNormalizer) normalizeAddressField(s string) string {
	lowered := strings.ToLower(n.addrSymbols.Replace(s))
	return strings.Join(strings.Fields(lowered), " ")
}

// NormalizeGender folds the free-form gender strings the lists carry
// into male / female / unknown.
func (n *EntityNormalizer) NormalizeGender(gender string) string {
	g := strings.ToLower(strings.TrimSpace(gender))
	if g == "" {
		return ""
	}
	if _, ok := n.genderMale[g]; ok {
		return "male"
	}
	if _, ok := n.genderFemale[g]; ok {
		return "female"
	}
	return "unknown"
}

// NormalizeIdentifier uppercases and strips separators so document
// numbers compare exactly: "AB 12-34-56 C" → "AB123456C".
func (n *EntityNormalizer) NormalizeIdentifier(id string) string {
	return strings.ToUpper(n.idSymbols.Replace(strings.TrimSpace(id)))
}

// Countries exposes the country index for callers that normalize
// bare country values (request parsing, downloaders).
func (n *EntityNormalizer) Countries() *CountryIndex {
	return n.countries
}

// Detector exposes the language detector.
func (n *EntityNormalizer) Detector() *LanguageDetector {
	return n.detector
}
