package simplify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/readeasy/internal/domain"
)

// Rewrite replaces every whole-word, case-insensitive occurrence of a
// mapping key with its value. Keys are lowercase words. Entries whose value
// equals the key (ignoring case) are skipped.
//
// Replacement runs in a single pass over the original text, so a value is
// never itself rewritten by another entry. An occurrence starting with an
// uppercase letter gets a capitalized replacement; any other occurrence
// gets the value as-is.
func Rewrite(text string, mapping map[string]string) string {
	if len(mapping) == 0 {
		return text
	}

	return wordPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := domain.NormalizeWord(match)
		replacement, ok := mapping[key]
		if !ok || domain.NormalizeWord(replacement) == key {
			return match
		}

		first, _ := utf8.DecodeRuneInString(match)
		if unicode.IsUpper(first) {
			return capitalize(replacement)
		}
		return replacement
	})
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
