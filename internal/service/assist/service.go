// Package assist runs the study-aid pipeline: keyword extraction,
// summarization and simplification of the summary.
package assist

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/readeasy/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Name() string
}

type embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type simplifier interface {
	Simplify(ctx context.Context, text string) (string, error)
}

// Result is the output of Process.
type Result struct {
	Keywords       []string `json:"keywords"`
	Summary        string   `json:"summary"`
	SummaryBackend string   `json:"summary_backend,omitempty"`
	Simplified     string   `json:"simplified"`
	// Warnings lists degraded steps. The pipeline still completes.
	Warnings []string `json:"warnings,omitempty"`
}

// Service implements the study-aid pipeline.
type Service struct {
	log        *slog.Logger
	summarizer summarizer
	embedder   embedder
	simplifier simplifier
	topN       int
}

// NewService creates a new assist service. A nil embedder disables keywords.
func NewService(
	logger *slog.Logger,
	sum summarizer,
	emb embedder,
	simp simplifier,
	topN int,
) *Service {
	if topN <= 0 {
		topN = 6
	}
	return &Service{
		log:        logger.With("service", "assist"),
		summarizer: sum,
		embedder:   emb,
		simplifier: simp,
		topN:       topN,
	}
}

// Process extracts keywords and a summary from text, then simplifies the
// summary. If summarization fails the raw text is simplified instead.
// Returns domain.ErrNoInput if text is blank.
func (s *Service) Process(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoInput
	}

	result := &Result{Keywords: []string{}}

	var (
		keywords   []string
		keywordErr error
		summary    string
		summaryErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		keywords, keywordErr = s.Keywords(ctx, text)
		return nil
	})
	g.Go(func() error {
		summary, summaryErr = s.summarize(ctx, text)
		return nil
	})
	_ = g.Wait()

	if keywordErr != nil {
		s.log.WarnContext(ctx, "keyword extraction failed", slog.String("error", keywordErr.Error()))
		result.Warnings = append(result.Warnings, "keywords unavailable: "+keywordErr.Error())
	} else if keywords != nil {
		result.Keywords = keywords
	}

	source := text
	if summaryErr != nil {
		s.log.WarnContext(ctx, "summarization failed, simplifying raw text", slog.String("error", summaryErr.Error()))
		result.Warnings = append(result.Warnings, "summary unavailable: "+summaryErr.Error())
	} else {
		result.Summary = summary
		result.SummaryBackend = s.summarizer.Name()
		source = summary
	}

	simplified, err := s.simplifier.Simplify(ctx, source)
	if err != nil {
		return nil, err
	}
	result.Simplified = simplified

	s.log.InfoContext(ctx, "assist pipeline complete",
		slog.Int("keywords", len(result.Keywords)),
		slog.Bool("summarized", summaryErr == nil),
	)
	return result, nil
}

func (s *Service) summarize(ctx context.Context, text string) (string, error) {
	if s.summarizer == nil {
		return "", errNoSummarizer
	}
	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(summary) == "" {
		return "", errEmptySummary
	}
	return summary, nil
}
