package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/readeasy/internal/adapter/filecache"
	"github.com/heartmarshall/readeasy/internal/adapter/postgres"
	"github.com/heartmarshall/readeasy/internal/adapter/postgres/wordcache"
	"github.com/heartmarshall/readeasy/internal/adapter/provider/datamuse"
	"github.com/heartmarshall/readeasy/internal/adapter/provider/gemini"
	"github.com/heartmarshall/readeasy/internal/adapter/provider/huggingface"
	"github.com/heartmarshall/readeasy/internal/adapter/provider/offline"
	"github.com/heartmarshall/readeasy/internal/adapter/sqlite"
	"github.com/heartmarshall/readeasy/internal/config"
	"github.com/heartmarshall/readeasy/internal/provider"
	"github.com/heartmarshall/readeasy/internal/service/assist"
	"github.com/heartmarshall/readeasy/internal/service/simplify"
	"github.com/heartmarshall/readeasy/internal/service/simplify/lexicon"
	cachesvc "github.com/heartmarshall/readeasy/internal/service/wordcache"
)

// CacheStore is the persistence contract shared by every cache driver.
type CacheStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
	Clear(ctx context.Context) error
}

// App holds the wired components of a simplification session.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Lexicon    *lexicon.Lexicon
	Cache      *cachesvc.Cache
	Simplifier *simplify.Service

	closers []func()
}

// Build wires the simplifier from configuration. A cache that cannot be
// loaded starts empty; the run continues.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	lex, err := lexicon.Load(cfg.Simplifier.DictionaryPath, cfg.Simplifier.KeepWordsPath)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Lexicon: lex,
		closers: []func(){closeStore},
	}

	a.Cache = cachesvc.NewCache(logger, store)
	if err := a.Cache.Load(ctx); err != nil {
		logger.WarnContext(ctx, "word cache unavailable, starting empty",
			slog.String("driver", cfg.Cache.Driver),
			slog.String("error", err.Error()),
		)
	}

	a.Simplifier = simplify.NewService(logger, a.Cache, lex, newSynonymProvider(cfg.Datamuse, logger), SimplifyConfig(cfg))

	logger.DebugContext(ctx, "simplifier ready",
		slog.String("cache_driver", cfg.Cache.Driver),
		slog.Int("cache_entries", a.Cache.Len()),
		slog.Int("dictionary_entries", lex.Len()),
		slog.Int("keep_words", lex.KeepLen()),
		slog.Bool("datamuse", cfg.Datamuse.Enabled),
	)

	return a, nil
}

// BuildAssist wires the study-aid pipeline on top of the simplifier.
func (a *App) BuildAssist(ctx context.Context) (*assist.Service, error) {
	cfg := a.Config
	hfOpts := huggingface.Options{
		BaseURL: cfg.HuggingFace.BaseURL,
		Token:   cfg.HuggingFace.Token,
		Timeout: cfg.HuggingFace.Timeout,
	}

	var sum interface {
		Summarize(ctx context.Context, text string) (string, error)
		Name() string
	}
	switch cfg.Summarizer.Backend {
	case config.SummarizerGemini:
		g, err := gemini.NewSummarizer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, a.Logger)
		if err != nil {
			return nil, err
		}
		sum = g
	case config.SummarizerHuggingFace, "":
		sum = huggingface.NewSummarizer(hfOpts, cfg.HuggingFace.SummaryModel, huggingface.SummaryLength{
			Min: cfg.HuggingFace.SummaryMinLength,
			Max: cfg.HuggingFace.SummaryMaxLength,
		}, a.Logger)
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Summarizer.Backend)
	}

	emb := huggingface.NewEmbedder(hfOpts, cfg.HuggingFace.EmbeddingModel, a.Logger)

	return assist.NewService(a.Logger, sum, emb, a.Simplifier, cfg.Keywords.TopN), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// SimplifyConfig maps configuration onto simplifier thresholds.
func SimplifyConfig(cfg *config.Config) simplify.Config {
	return simplify.Config{
		LongSentenceWords: cfg.Simplifier.LongSentenceWords,
		ShortWordMax:      cfg.Simplifier.ShortWordMax,
		MaxCandidates:     cfg.Simplifier.MaxCandidates,
		SimplerRatio:      cfg.Simplifier.SimplerRatio,
		Workers:           cfg.Simplifier.Workers,
		LookupTimeout:     cfg.Datamuse.Timeout,
	}
}

// OpenStore opens the cache store selected by cfg.Cache.Driver. The returned
// func releases it and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (CacheStore, func(), error) {
	noop := func() {}

	switch cfg.Cache.Driver {
	case config.CacheDriverFile, "":
		return filecache.NewStore(cfg.Cache.Path), noop, nil

	case config.CacheDriverMemory:
		return cachesvc.NewMemoryStore(), noop, nil

	case config.CacheDriverSQLite:
		s, err := sqlite.Open(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("close sqlite cache", slog.String("error", err.Error()))
			}
		}, nil

	case config.CacheDriverPostgres:
		if cfg.Database.DSN == "" {
			return nil, noop, errors.New("postgres cache driver requires database.dsn")
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		return wordcache.New(pool, postgres.NewTxManager(pool)), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

type synonymProvider interface {
	FetchSynonyms(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error)
}

func newSynonymProvider(cfg config.DatamuseConfig, logger *slog.Logger) synonymProvider {
	if !cfg.Enabled {
		return offline.NewStub()
	}
	return datamuse.NewProviderWithURL(cfg.BaseURL, cfg.Timeout, logger)
}
