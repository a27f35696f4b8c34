package simplify

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/readeasy/internal/domain"
	"github.com/heartmarshall/readeasy/pkg/ctxutil"
)

const flushTimeout = 10 * time.Second

// Report describes a single simplification run.
type Report struct {
	RunID       uuid.UUID
	Original    string
	Simplified  string
	Sentences   int
	UniqueWords int
	// Replacements lists changed words in order of first appearance.
	Replacements []domain.Resolution
	Tiers        map[domain.Tier]int
	Duration     time.Duration
}

// Simplify returns an easier-to-read version of text.
// Returns domain.ErrNoInput if text is blank.
func (s *Service) Simplify(ctx context.Context, text string) (string, error) {
	report, err := s.SimplifyWithReport(ctx, text)
	if err != nil {
		return "", err
	}
	return report.Simplified, nil
}

// SimplifyWithReport runs the pipeline and returns the result together
// with per-word resolution details.
//
// Steps: split long sentences, resolve unique words in parallel, rewrite
// with the resulting mapping, clean up formatting, flush the cache. Remote
// lookup and cache flush failures are logged and never returned.
func (s *Service) SimplifyWithReport(ctx context.Context, text string) (*Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoInput
	}

	ctx, runID := ctxutil.EnsureRunID(ctx)
	log := s.log.With(slog.String("run_id", runID.String()))
	start := time.Now()

	normalized := domain.NormalizeInput(text)
	split := SplitLongSentences(normalized, s.cfg.LongSentenceWords)

	// Resolutions reached before a cancellation are persisted too.
	defer s.flush(ctx, log)

	words := UniqueWords(split)
	resolutions, err := s.resolveAll(ctx, words)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string)
	report := &Report{
		RunID:       runID,
		Original:    text,
		Sentences:   len(Segment(split)),
		UniqueWords: len(words),
		Tiers:       make(map[domain.Tier]int, len(domain.AllTiers)),
	}
	for _, r := range resolutions {
		report.Tiers[r.Tier]++
		if r.Changed() {
			mapping[r.Word] = r.Replacement
			report.Replacements = append(report.Replacements, r)
		}
	}

	report.Simplified = Cleanup(Rewrite(split, mapping))

	report.Duration = time.Since(start)
	log.InfoContext(ctx, "text simplified",
		slog.Int("unique_words", report.UniqueWords),
		slog.Int("replacements", len(report.Replacements)),
		slog.Int("remote", report.Tiers[domain.TierRemote]),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// flush persists the cache once per run. It runs detached from ctx's
// cancellation, bounded by flushTimeout.
func (s *Service) flush(ctx context.Context, log *slog.Logger) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()

	if err := s.cache.Flush(flushCtx); err != nil {
		log.WarnContext(ctx, "cache flush failed", slog.String("error", err.Error()))
	}
}

// resolveAll resolves words concurrently and returns results in input order.
// The mapping is only assembled after every resolution completes.
func (s *Service) resolveAll(ctx context.Context, words []string) ([]domain.Resolution, error) {
	results := make([]domain.Resolution, len(words))
	if len(words) == 0 {
		return results, nil
	}

	limit := s.cfg.Workers
	if limit == 0 || limit > len(words) {
		limit = len(words)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, w := range words {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Resolve(gctx, w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Clip(results), nil
}
