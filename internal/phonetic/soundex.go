// Package phonetic implements the Soundex prefilter used to cheaply
// discard candidates that cannot sound like the query. The filter is
// advisory only; ranking always comes from Jaro-Winkler scoring.
package phonetic

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// soundexCode maps consonants to their digit. H and W are absent on
// purpose: they are dropped without breaking a run, so consonants with
// equal codes still collapse across them (Ashcraft → A261).
var soundexCode = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// Soundex returns the 4-character class of a word: the first letter
// followed by up to three digits, zero-padded. Input is ASCII-folded
// first so "Müller" and "Mueller" land close. Words with no foldable
// letters return "".
func Soundex(word string) string {
	folded := strings.ToUpper(unidecode.Unidecode(word))

	letters := make([]byte, 0, len(folded))
	for i := 0; i < len(folded); i++ {
		if c := folded[i]; c >= 'A' && c <= 'Z' {
			letters = append(letters, c)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	out := make([]byte, 1, 4)
	out[0] = letters[0]
	prev := soundexCode[letters[0]]
	for _, c := range letters[1:] {
		if c == 'H' || c == 'W' {
			continue
		}
		code, ok := soundexCode[c]
		if !ok {
			// vowels and Y carry no code but do break a run
			prev = 0
			continue
		}
		if code == prev {
			continue
		}
		out = append(out, code)
		prev = code
		if len(out) == 4 {
			break
		}
	}
	for len(out) < 4 {
		out = append(out, '0')
	}
	return string(out)
}

// ClassOf returns the Soundex class of the first non-empty token.
func ClassOf(tokens []string) string {
	for _, tok := range tokens {
		if tok != "" {
			return Soundex(tok)
		}
	}
	return ""
}

// Compatible reports whether two classes may refer to the same-sounding
// word. An empty class never excludes a candidate.
func Compatible(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return a == b
}
