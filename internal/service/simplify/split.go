package simplify

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/readeasy/internal/domain"
)

var sentenceDelimiter = regexp.MustCompile(`([.!?])\s+`)

// splitRule turns a comma-led connective into a new sentence boundary.
type splitRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// splitRules are applied in this order, each at most once per sentence.
// "which led to" precedes "which" so the longer connective wins.
var splitRules = []splitRule{
	{regexp.MustCompile(`,\s+leaving\b`), ". This left"},
	{regexp.MustCompile(`,\s+making\b`), ". This made"},
	{regexp.MustCompile(`,\s+causing\b`), ". This caused"},
	{regexp.MustCompile(`,\s+which led to\b`), ". This led to"},
	{regexp.MustCompile(`,\s+which\b`), ". This"},
	{regexp.MustCompile(`,\s+creating\b`), ". This created"},
}

// Segment breaks text into sentences on '.', '!' or '?' followed by
// whitespace. The delimiter is kept as Punct. A trailing fragment keeps its
// own terminal punctuation, or an empty Punct if it has none.
func Segment(text string) []domain.Sentence {
	var sentences []domain.Sentence

	last := 0
	for _, loc := range sentenceDelimiter.FindAllStringSubmatchIndex(text, -1) {
		sentences = append(sentences, domain.Sentence{
			Text:  text[last:loc[0]],
			Punct: text[loc[2]:loc[3]],
		})
		last = loc[1]
	}

	tail := strings.TrimRightFunc(text[last:], isSpace)
	if tail != "" {
		s := domain.Sentence{Text: tail}
		if n := len(tail); strings.ContainsAny(tail[n-1:], ".!?") {
			s.Text, s.Punct = tail[:n-1], tail[n-1:]
		}
		sentences = append(sentences, s)
	}

	return sentences
}

// SplitLongSentences splits each sentence with more than threshold words
// at known connectives and reassembles the text, space-joined.
func SplitLongSentences(text string, threshold int) string {
	sentences := Segment(text)
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		body := s.Text
		if len(strings.Fields(body)) > threshold {
			body = splitSentence(body)
		}
		parts = append(parts, body+s.Punct)
	}
	return strings.Join(parts, " ")
}

func splitSentence(sentence string) string {
	for _, rule := range splitRules {
		loc := rule.pattern.FindStringIndex(sentence)
		if loc == nil {
			continue
		}
		sentence = sentence[:loc[0]] + rule.replacement + sentence[loc[1]:]
	}
	return sentence
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
