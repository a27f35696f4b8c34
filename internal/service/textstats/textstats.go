// Package textstats computes readability statistics for reporting.
// Nothing here feeds back into simplification decisions.
package textstats

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/heartmarshall/readeasy/internal/domain"
)

const tokenPunctuation = `.,!?;:()[]{}"'-`

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Analyze returns word and sentence statistics for text.
// Averages are zero when there are no words or no sentences.
func Analyze(text string) domain.TextStats {
	var (
		words       int
		totalLength int
	)
	for _, tok := range strings.Fields(text) {
		words++
		totalLength += utf8.RuneCountInString(strings.Trim(tok, tokenPunctuation))
	}

	sentences := 0
	for _, s := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	stats := domain.TextStats{WordCount: words, SentenceCount: sentences}
	if words > 0 {
		stats.AvgWordLength = float64(totalLength) / float64(words)
	}
	if sentences > 0 {
		stats.AvgSentenceLength = float64(words) / float64(sentences)
	}
	return stats
}

// Comparison holds statistics for an original and a simplified text.
type Comparison struct {
	Original   domain.TextStats `json:"original"`
	Simplified domain.TextStats `json:"simplified"`
	// ComplexityReduction is the percentage drop in average word length.
	ComplexityReduction float64 `json:"complexity_reduction"`
}

// Compare analyzes both texts.
func Compare(original, simplified string) Comparison {
	c := Comparison{
		Original:   Analyze(original),
		Simplified: Analyze(simplified),
	}
	if c.Original.AvgWordLength > 0 {
		c.ComplexityReduction = (c.Original.AvgWordLength - c.Simplified.AvgWordLength) /
			c.Original.AvgWordLength * 100
	}
	return c
}

// WriteTable renders the comparison as an aligned table.
func (c Comparison) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	rows := []struct {
		label      string
		orig, simp float64
		precision  int
	}{
		{"Words", float64(c.Original.WordCount), float64(c.Simplified.WordCount), 0},
		{"Sentences", float64(c.Original.SentenceCount), float64(c.Simplified.SentenceCount), 0},
		{"Avg Word Length", c.Original.AvgWordLength, c.Simplified.AvgWordLength, 1},
		{"Avg Sentence Length", c.Original.AvgSentenceLength, c.Simplified.AvgSentenceLength, 1},
	}

	fmt.Fprintln(tw, "Metric\tOriginal\tSimplified\tChange\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.*f\t%.*f\t%+.*f\t\n",
			r.label, r.precision, r.orig, r.precision, r.simp, r.precision, r.simp-r.orig)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write stats table: %w", err)
	}

	_, err := fmt.Fprintf(w, "Word Complexity Reduction: %.1f%%\n", c.ComplexityReduction)
	return err
}
