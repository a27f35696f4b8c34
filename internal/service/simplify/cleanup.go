package simplify

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,!?;:])`)
	sentenceJoin      = regexp.MustCompile(`([.!?])\s*([A-Z])`)
	repeatedFullStops = regexp.MustCompile(`\.+`)
)

// Cleanup normalizes formatting after rewriting: collapses whitespace,
// removes space before punctuation, puts one space between a sentence end
// and a following capital letter, and collapses repeated periods.
func Cleanup(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = sentenceJoin.ReplaceAllString(text, "$1 $2")
	text = repeatedFullStops.ReplaceAllString(text, ".")
	return strings.TrimSpace(text)
}
