package simplify

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/readeasy/internal/domain"
	"github.com/heartmarshall/readeasy/internal/service/simplify/complexity"
)

// Resolve returns the simplest acceptable replacement for word.
//
// Sources are consulted in order, each short-circuiting on a hit:
// keep rules, cache, curated dictionary, remote synonyms. A word with no
// acceptable replacement resolves to itself and is cached as such, so it
// is never looked up remotely again.
//
// Word is always the lowercase lookup key. A word that is kept or left
// unresolved is returned as given, minus surrounding whitespace.
func (s *Service) Resolve(ctx context.Context, word string) domain.Resolution {
	key := domain.NormalizeWord(word)
	res := domain.Resolution{Word: key, Replacement: strings.TrimSpace(word), Tier: domain.TierKeep}

	if s.keepAsIs(key) {
		return res
	}

	if cached, ok := s.cache.Get(key); ok {
		res.Replacement = cached
		res.Tier = domain.TierCache
		return res
	}

	if curated, ok := s.lexicon.Lookup(key); ok {
		s.cache.Put(key, curated)
		res.Replacement = curated
		res.Tier = domain.TierDictionary
		return res
	}

	if best, ok := s.bestRemoteSynonym(ctx, key); ok {
		s.cache.Put(key, best)
		if err := s.cache.Flush(ctx); err != nil {
			s.log.WarnContext(ctx, "cache flush failed", slog.String("error", err.Error()))
		}
		res.Replacement = best
		res.Tier = domain.TierRemote
		return res
	}

	s.cache.Put(key, key)
	res.Tier = domain.TierUnresolved
	return res
}

// keepAsIs reports whether word must never be replaced: keep-set members,
// short words, and tokens that are not purely alphabetic.
func (s *Service) keepAsIs(word string) bool {
	if word == "" || utf8.RuneCountInString(word) <= s.cfg.ShortWordMax {
		return true
	}
	if s.lexicon.Keep(word) {
		return true
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// bestRemoteSynonym queries the synonym provider and picks the lowest-scoring
// candidate that is strictly simpler than word. Ties keep the provider's order.
// Provider failures are logged and treated as "no candidates".
func (s *Service) bestRemoteSynonym(ctx context.Context, word string) (string, bool) {
	if s.synonyms == nil {
		return "", false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	candidates, err := s.synonyms.FetchSynonyms(lookupCtx, word, s.cfg.MaxCandidates)
	if err != nil {
		s.log.WarnContext(ctx, "synonym lookup failed, keeping word",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	original := complexity.Entry(word)
	var best domain.WordEntry
	for _, c := range candidates {
		candidate := complexity.Entry(c.Word)
		if candidate.Text == "" || candidate.Text == original.Text {
			continue
		}
		if !complexity.SimplerThan(candidate.Score, original.Score, s.cfg.SimplerRatio) {
			continue
		}
		if best.Text == "" || candidate.Score < best.Score {
			best = candidate
		}
	}

	s.log.DebugContext(ctx, "synonym lookup",
		slog.String("word", word),
		slog.Int("candidates", len(candidates)),
		slog.String("chosen", best.Text),
	)

	return best.Text, best.Text != ""
}
