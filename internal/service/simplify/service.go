// Package simplify rewrites text into an easier-to-read form by replacing
// complex words with simpler synonyms and splitting overlong sentences.
package simplify

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/readeasy/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type synonymProvider interface {
	FetchSynonyms(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error)
}

type wordCache interface {
	Get(word string) (string, bool)
	Put(word, replacement string)
	Flush(ctx context.Context) error
}

type lexicon interface {
	Lookup(word string) (string, bool)
	Keep(word string) bool
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

// Config holds the tunable thresholds of the simplifier.
// Zero values are replaced with the defaults below.
type Config struct {
	// LongSentenceWords is the word count above which a sentence is split.
	LongSentenceWords int
	// ShortWordMax is the length at or below which words are never replaced.
	ShortWordMax int
	// MaxCandidates bounds the number of remote synonym candidates requested.
	MaxCandidates int
	// SimplerRatio is the factor a candidate's score must stay strictly under.
	SimplerRatio float64
	// Workers bounds parallel resolution; 0 means one worker per unique word.
	Workers int
	// LookupTimeout bounds each remote lookup.
	LookupTimeout time.Duration
}

const (
	defaultLongSentenceWords = 20
	defaultShortWordMax      = 4
	defaultMaxCandidates     = 15
	defaultSimplerRatio      = 0.8
	defaultLookupTimeout     = 3 * time.Second
)

func (c Config) withDefaults() Config {
	if c.LongSentenceWords <= 0 {
		c.LongSentenceWords = defaultLongSentenceWords
	}
	if c.ShortWordMax <= 0 {
		c.ShortWordMax = defaultShortWordMax
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = defaultMaxCandidates
	}
	if c.SimplerRatio <= 0 || c.SimplerRatio > 1 {
		c.SimplerRatio = defaultSimplerRatio
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = defaultLookupTimeout
	}
	return c
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the simplification pipeline.
type Service struct {
	log      *slog.Logger
	cache    wordCache
	lexicon  lexicon
	synonyms synonymProvider
	cfg      Config
}

// NewService creates a new simplification service.
func NewService(
	logger *slog.Logger,
	cache wordCache,
	lex lexicon,
	synonyms synonymProvider,
	cfg Config,
) *Service {
	return &Service{
		log:      logger.With("service", "simplify"),
		cache:    cache,
		lexicon:  lex,
		synonyms: synonyms,
		cfg:      cfg.withDefaults(),
	}
}
