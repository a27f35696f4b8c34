package assist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	errNoSummarizer = errors.New("no summarizer configured")
	errEmptySummary = errors.New("summarizer returned empty text")
	errNoEmbedder   = errors.New("no embedder configured")
)

// Keywords returns the topN whitespace tokens of text whose embeddings are
// most similar to the embedding of the whole text. Tokens are lowercased
// and deduplicated; ties keep first-appearance order.
func (s *Service) Keywords(ctx context.Context, text string) ([]string, error) {
	if s.embedder == nil {
		return nil, errNoEmbedder
	}

	words := uniqueTokens(text)
	if len(words) == 0 {
		return []string{}, nil
	}

	textVecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(textVecs) != 1 {
		return nil, fmt.Errorf("embed text: got %d vectors", len(textVecs))
	}

	wordVecs, err := s.embedder.Embed(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("embed words: %w", err)
	}
	if len(wordVecs) != len(words) {
		return nil, fmt.Errorf("embed words: got %d vectors for %d words", len(wordVecs), len(words))
	}

	type scored struct {
		word  string
		score float64
	}
	ranked := make([]scored, len(words))
	for i, w := range words {
		ranked[i] = scored{word: w, score: cosine(textVecs[0], wordVecs[i])}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	n := min(s.topN, len(ranked))
	out := make([]string, n)
	for i := range n {
		out[i] = ranked[i].word
	}
	return out, nil
}

func uniqueTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// cosine returns the cosine similarity of a and b, or 0 if either is zero.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range min(len(a), len(b)) {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
