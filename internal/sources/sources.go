// Package sources parses the published sanctions list files into
// entities. Each parser understands one list's CSV dialect and emits
// entity fragments; callers run the fragments through the merger and
// the normalizer before installing them in the index.
package sources

import (
	"strings"
	"time"

	"github.com/watchlist-screener/app/models"
)

// ofacNull is the marker OFAC writes for absent values.
const ofacNull = "-0-"

// cleanField trims a raw CSV value and maps list-specific null markers
// to the empty string.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == ofacNull || s == "None" || s == "none" {
		return ""
	}
	return s
}

// splitMulti splits a semicolon-packed multi-value field.
func splitMulti(s string) []string {
	if s = cleanField(s); s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dateLayouts covers the formats the four lists publish: OFAC remarks
// use "02 Jan 2006", trade.gov uses ISO dates, OFSI uses slashes.
var dateLayouts = []string{
	"02 Jan 2006",
	"2006-01-02",
	"02/01/2006",
	"Jan 2006",
	"2006",
}

// parseListDate tries each known layout; year-only values resolve to
// January 1st. Unparseable values return nil rather than an error so a
// malformed date never drops the whole record.
func parseListDate(raw string) *time.Time {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "circa"))
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// headerIndex maps lowercased column names to positions so parsers
// survive column reordering between list revisions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if h != "" {
			idx[h] = i
		}
	}
	return idx
}

// column fetches a named column from a row, empty when missing.
func column(row []string, idx map[string]int, name string) string {
	i, ok := idx[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return cleanField(row[i])
}

// entityID builds the index-wide unique id for a parsed record.
func entityID(source models.SourceList, sourceID string) string {
	return string(source) + "-" + sourceID
}
