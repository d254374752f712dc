package normalizer

import (
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics loại bỏ dấu một cách an toàn: NFD → bỏ combining
// marks → NFC. Giữ nguyên các ký tự ngoài bảng Latin, nên tên tiếng
// Nga hay tiếng Ả Rập đi qua nguyên vẹn.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

// isMn kiểm tra rune có phải combining mark không
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
