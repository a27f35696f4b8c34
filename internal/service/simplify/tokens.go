package simplify

import (
	"regexp"
	"slices"

	"github.com/heartmarshall/readeasy/internal/domain"
)

// wordPattern matches word-character runs. Matching whole runs gives
// word-boundary semantics: "use" never matches inside "user".
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// UniqueWords returns the distinct lowercase word tokens of text in
// order of first appearance.
func UniqueWords(text string) []string {
	matches := wordPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		key := domain.NormalizeWord(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, key)
	}
	return slices.Clip(words)
}
