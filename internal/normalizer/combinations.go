package normalizer

// shortTokenMax is the rune length at or below which a token is
// considered fusable with a neighbor (initials, stock forms, particles).
const shortTokenMax = 3

// GenerateWordCombinations returns up to three variants of a token
// list: the original, a forward pass fusing each short token into the
// token after it, and a backward pass shifting the lead character of a
// short token onto the token before it. The variants let "JSC ARGUMENT"
// match "JSCARGUMENT" and "John de Silva" match "Johnde Silva" style
// concatenations without hurting ordinary names.
//
//	["JSC","ARGUMENT"]    → [["JSC","ARGUMENT"], ["JSCARGUMENT"]]
//	["John","de","Silva"] → [["John","de","Silva"], ["John","deSilva"], ["Johnd","e","Silva"]]
//
// The backward variant is emitted only when the forward pass changed
// something, and duplicates are dropped.
func GenerateWordCombinations(tokens []string) [][]string {
	combos := [][]string{tokens}
	if len(tokens) < 2 {
		return combos
	}

	forward, changed := forwardCombine(tokens)
	if !changed {
		return combos
	}
	combos = append(combos, forward)

	backward, changed := backwardCombine(tokens)
	if changed && !sameTokens(backward, tokens) && !sameTokens(backward, forward) {
		combos = append(combos, backward)
	}
	return combos
}

func forwardCombine(tokens []string) ([]string, bool) {
	out := make([]string, 0, len(tokens))
	changed := false
	for i := 0; i < len(tokens); i++ {
		if runeLen(tokens[i]) <= shortTokenMax && i+1 < len(tokens) {
			out = append(out, tokens[i]+tokens[i+1])
			i++
			changed = true
			continue
		}
		out = append(out, tokens[i])
	}
	return out, changed
}

func backwardCombine(tokens []string) ([]string, bool) {
	out := make([]string, 0, len(tokens))
	out = append(out, tokens[0])
	changed := false
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if runeLen(tok) <= shortTokenMax {
			runes := []rune(tok)
			out[len(out)-1] += string(runes[0])
			if rest := string(runes[1:]); rest != "" {
				out = append(out, rest)
			}
			changed = true
			continue
		}
		out = append(out, tok)
	}
	return out, changed
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func sameTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
