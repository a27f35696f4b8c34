// Package complexity scores how hard an English word is to read.
package complexity

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/readeasy/internal/domain"
)

const vowels = "aeiouy"

// Score returns 2*syllables + length for word. Higher scores mean harder words.
// Length is counted in runes.
func Score(word string) int {
	word = strings.ToLower(word)
	return 2*Syllables(word) + utf8.RuneCountInString(word)
}

// Entry lowercases word and scores it.
func Entry(word string) domain.WordEntry {
	text := domain.NormalizeWord(word)
	return domain.WordEntry{Text: text, Score: Score(text)}
}

// Syllables estimates the syllable count of word: each maximal run of vowels
// counts once, a trailing silent "e" is discounted, and the result is at least 1.
func Syllables(word string) int {
	word = strings.ToLower(word)

	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") {
		count--
	}

	return max(1, count)
}

// SimplerThan reports whether candidate scores strictly below ratio times
// the score of original.
func SimplerThan(candidate, original int, ratio float64) bool {
	return float64(candidate) < float64(original)*ratio
}
