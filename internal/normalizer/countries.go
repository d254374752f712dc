package normalizer

import "fmt"

// CountryIndex resolves free-form country values (ISO codes, long-form
// names, legacy names) to one canonical lowercase name per country, so
// that "US", "USA" and "United States" all compare equal downstream.
type CountryIndex struct {
	codes   map[string]string
	aliases map[string]string
	names   map[string]struct{}
}

// NewCountryIndex builds the index from the embedded country tables.
func NewCountryIndex() (*CountryIndex, error) {
	data, err := LoadCountryData()
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}
	if len(data.Codes) == 0 {
		return nil, fmt.Errorf("countries: embedded code table is empty")
	}

	ci := &CountryIndex{
		codes:   data.Codes,
		aliases: data.Aliases,
		names:   make(map[string]struct{}, len(data.Codes)),
	}
	for _, name := range data.Codes {
		ci.names[name] = struct{}{}
	}
	return ci, nil
}

// Normalize maps a raw country value to its canonical form. Unknown
// values are returned folded but otherwise untouched, which keeps the
// operation idempotent.
func (ci *CountryIndex) Normalize(raw string) string {
	folded := LowerAndStripPunctuation(raw)
	if folded == "" {
		return ""
	}
	if name, ok := ci.codes[folded]; ok {
		return name
	}
	if name, ok := ci.aliases[folded]; ok {
		return name
	}
	return folded
}

// Known reports whether the value resolves to a canonical country.
func (ci *CountryIndex) Known(raw string) bool {
	folded := LowerAndStripPunctuation(raw)
	if folded == "" {
		return false
	}
	if _, ok := ci.codes[folded]; ok {
		return true
	}
	if _, ok := ci.aliases[folded]; ok {
		return true
	}
	_, ok := ci.names[folded]
	return ok
}
