package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

// numericTokenPattern matches tokens that are essentially numbers:
// digits optionally mixed with separators, ending in a digit. Such
// tokens survive every stopword pass (registration numbers, dates).
var numericTokenPattern = regexp.MustCompile(`^[0-9.,\-]*[0-9]$`)

// apostrophes covers the straight quote plus the common typographic ones.
var apostropheReplacer = strings.NewReplacer("'", "", "’", "", "ʼ", "", "`", "")

// LowerAndStripPunctuation produces the canonical matching form of a
// string: diacritics removed, lowercased, every rune that is not a
// letter, digit, hyphen or whitespace replaced by a space, whitespace
// collapsed. Hyphenated words stay intact ("Vice-President").
func LowerAndStripPunctuation(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.ToLower(StripDiacritics(s))

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// StripApostrophes removes apostrophes without leaving a gap, so that
// "O'Brien" normalizes to "obrien" rather than "o brien".
func StripApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// Tokenize splits an already-normalized string on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// IsNumericToken reports whether the token must survive stopword
// removal regardless of language.
func IsNumericToken(tok string) bool {
	return numericTokenPattern.MatchString(tok)
}
