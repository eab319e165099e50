package thumbnail

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeQuery turns a display name into the fallback search query:
// whitespace trimmed, each word upper-cased on its first letter and
// lower-cased elsewhere, words joined with underscores.
func NormalizeQuery(displayName string) string {
	words := strings.Fields(displayName)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, "_")
}
