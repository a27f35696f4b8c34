package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord prepares a token for use as a lookup key:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Hyphens and apostrophes are preserved.
func NormalizeWord(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	word = strings.ToLower(word)

	var b strings.Builder
	b.Grow(len(word))
	prevSpace := false
	for _, r := range word {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeInput folds compatibility characters (ligatures, full-width forms)
// to their canonical NFKC form so that "ﬁnancial" and "financial" tokenize alike.
func NormalizeInput(text string) string {
	return norm.NFKC.String(text)
}
