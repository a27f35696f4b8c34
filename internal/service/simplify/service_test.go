package simplify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/readeasy/internal/domain"
	"github.com/heartmarshall/readeasy/internal/provider"
	"github.com/heartmarshall/readeasy/internal/service/simplify/complexity"
	"github.com/heartmarshall/readeasy/internal/service/wordcache"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockSynonymProvider struct {
	FetchSynonymsFunc func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockSynonymProvider) FetchSynonyms(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, word)
	m.mu.Unlock()

	if m.FetchSynonymsFunc == nil {
		return nil, nil
	}
	return m.FetchSynonymsFunc(ctx, word, max)
}

func (m *mockSynonymProvider) FetchSynonymsCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type mockLexicon struct {
	LookupFunc func(word string) (string, bool)
	KeepFunc   func(word string) bool
}

func (m *mockLexicon) Lookup(word string) (string, bool) {
	if m.LookupFunc == nil {
		return "", false
	}
	return m.LookupFunc(word)
}

func (m *mockLexicon) Keep(word string) bool {
	if m.KeepFunc == nil {
		return false
	}
	return m.KeepFunc(word)
}

type mockWordCache struct {
	GetFunc   func(word string) (string, bool)
	PutFunc   func(word, replacement string)
	FlushFunc func(ctx context.Context) error
}

func (m *mockWordCache) Get(word string) (string, bool) { return m.GetFunc(word) }
func (m *mockWordCache) Put(word, replacement string)   { m.PutFunc(word, replacement) }
func (m *mockWordCache) Flush(ctx context.Context) error {
	return m.FlushFunc(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dictLexicon(entries map[string]string, keep ...string) *mockLexicon {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	return &mockLexicon{
		LookupFunc: func(word string) (string, bool) {
			v, ok := entries[word]
			return v, ok
		},
		KeepFunc: func(word string) bool { return keepSet[word] },
	}
}

func newMemoryCache() *wordcache.Cache {
	return wordcache.NewCache(newTestLogger(), wordcache.NewMemoryStore())
}

func candidates(words ...string) []provider.SynonymCandidate {
	out := make([]provider.SynonymCandidate, len(words))
	for i, w := range words {
		out[i] = provider.SynonymCandidate{Word: w}
	}
	return out
}

func newTestService(cache wordCache, lex lexicon, syn synonymProvider) *Service {
	return NewService(newTestLogger(), cache, lex, syn, DefaultConfig())
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve_KeepSetWinsOverEverySource(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cache.Put("important", "key")
	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("big"), nil
	}}
	svc := newTestService(cache, dictLexicon(map[string]string{"important": "main"}, "important"), syn)

	res := svc.Resolve(context.Background(), "Important")

	assert.Equal(t, "important", res.Word)
	assert.Equal(t, "Important", res.Replacement)
	assert.Equal(t, domain.TierKeep, res.Tier)
	assert.False(t, res.Changed())
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestResolve_ShortWordsNeverReplaced(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{}
	svc := newTestService(newMemoryCache(), dictLexicon(map[string]string{"tool": "aid", "cat": "pet"}), syn)

	for _, w := range []string{"tool", "cat", "a", "Ment"} {
		res := svc.Resolve(context.Background(), w)
		assert.Equal(t, w, res.Replacement, w)
		assert.Equal(t, domain.TierKeep, res.Tier, w)
	}
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestResolve_ZeroConfigKeepsShortWords(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("a"), nil
	}}
	svc := NewService(newTestLogger(), newMemoryCache(), dictLexicon(map[string]string{"dog": "pup"}), syn, Config{})

	for _, w := range []string{"dog", "tool"} {
		res := svc.Resolve(context.Background(), w)
		assert.Equal(t, domain.TierKeep, res.Tier, w)
		assert.Equal(t, w, res.Replacement, w)
	}
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig(), got)
	assert.Equal(t, 4, got.ShortWordMax)
	assert.Equal(t, 20, got.LongSentenceWords)
	assert.Equal(t, 15, got.MaxCandidates)
	assert.InDelta(t, 0.8, got.SimplerRatio, 1e-9)

	custom := Config{ShortWordMax: 3}.withDefaults()
	assert.Equal(t, 3, custom.ShortWordMax)
}

func TestResolve_KeptWordReturnedAsGiven(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryCache(), dictLexicon(nil, "hello"), &mockSynonymProvider{})

	res := svc.Resolve(context.Background(), "Hello")
	assert.Equal(t, "hello", res.Word)
	assert.Equal(t, "Hello", res.Replacement)
	assert.False(t, res.Changed())
}

func TestResolve_NonAlphabeticTokensKept(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{}
	svc := newTestService(newMemoryCache(), dictLexicon(nil), syn)

	for _, w := range []string{"2024", "covid19", "snake_case"} {
		res := svc.Resolve(context.Background(), w)
		assert.Equal(t, domain.TierKeep, res.Tier, w)
	}
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestResolve_CacheHit(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cache.Put("commence", "start")
	syn := &mockSynonymProvider{}
	svc := newTestService(cache, dictLexicon(map[string]string{"commence": "begin"}), syn)

	res := svc.Resolve(context.Background(), "commence")

	assert.Equal(t, "start", res.Replacement)
	assert.Equal(t, domain.TierCache, res.Tier)
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestResolve_DictionaryHitIsCached(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	syn := &mockSynonymProvider{}
	svc := newTestService(cache, dictLexicon(map[string]string{"utilize": "use"}), syn)

	res := svc.Resolve(context.Background(), "Utilize")
	assert.Equal(t, "use", res.Replacement)
	assert.Equal(t, domain.TierDictionary, res.Tier)

	cached, ok := cache.Get("utilize")
	require.True(t, ok)
	assert.Equal(t, "use", cached)
	assert.Empty(t, syn.FetchSynonymsCalls())
}

func TestResolve_RemoteCandidateFiltering(t *testing.T) {
	t.Parallel()

	// complication=20, approximately=25, quandary=14, difficulty=18.
	require.Equal(t, 20, complexity.Score("complication"))
	require.Equal(t, 25, complexity.Score("approximately"))
	require.Equal(t, 14, complexity.Score("quandary"))
	require.Equal(t, 18, complexity.Score("difficulty"))

	var gotMax int
	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		gotMax = max
		return candidates("approximately", "quandary", "difficulty"), nil
	}}
	cache := newMemoryCache()
	svc := newTestService(cache, dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "complication")

	assert.Equal(t, "quandary", res.Replacement)
	assert.Equal(t, domain.TierRemote, res.Tier)
	assert.Equal(t, 15, gotMax)
	assert.Equal(t, 0, cache.Dirty(), "remote hit should be flushed")
}

func TestResolve_RemoteTieKeepsProviderOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, complexity.Score("snag"), complexity.Score("knot"))

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("snag", "knot"), nil
	}}
	svc := newTestService(newMemoryCache(), dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "complication")
	assert.Equal(t, "snag", res.Replacement)
}

func TestResolve_RemoteSkipsSelfAndBlank(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("", "Complication", "problem"), nil
	}}
	svc := newTestService(newMemoryCache(), dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "complication")
	assert.Equal(t, "problem", res.Replacement)
}

func TestResolve_NoSurvivorCachesOriginal(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("approximately", "difficulty"), nil
	}}
	cache := newMemoryCache()
	svc := newTestService(cache, dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "Complication")
	assert.Equal(t, "Complication", res.Replacement)
	assert.Equal(t, domain.TierUnresolved, res.Tier)

	cached, ok := cache.Get("complication")
	require.True(t, ok)
	assert.Equal(t, "complication", cached)
}

func TestResolve_ProviderErrorDegrades(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return nil, errors.New("connection refused")
	}}
	svc := newTestService(newMemoryCache(), dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "complication")
	assert.Equal(t, "complication", res.Replacement)
	assert.Equal(t, domain.TierUnresolved, res.Tier)
}

func TestResolve_Idempotent_NoSecondRemoteLookup(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("quandary"), nil
	}}
	svc := newTestService(newMemoryCache(), dictLexicon(nil), syn)

	first := svc.Resolve(context.Background(), "complication")
	second := svc.Resolve(context.Background(), "complication")

	assert.Equal(t, first.Replacement, second.Replacement)
	assert.Equal(t, domain.TierCache, second.Tier)
	assert.Len(t, syn.FetchSynonymsCalls(), 1)
}

func TestResolve_UnresolvedNotRequeriedInLaterSession(t *testing.T) {
	t.Parallel()

	store := wordcache.NewMemoryStore()
	syn := &mockSynonymProvider{}

	first := wordcache.NewCache(newTestLogger(), store)
	svc := newTestService(first, dictLexicon(nil), syn)
	_, err := svc.Simplify(context.Background(), "Serendipity strikes.")
	require.NoError(t, err)
	require.Len(t, syn.FetchSynonymsCalls(), 2)

	second := wordcache.NewCache(newTestLogger(), store)
	require.NoError(t, second.Load(context.Background()))
	svc = newTestService(second, dictLexicon(nil), syn)
	_, err = svc.Simplify(context.Background(), "Serendipity strikes.")
	require.NoError(t, err)

	assert.Len(t, syn.FetchSynonymsCalls(), 2, "cached words must not be looked up again")
}

func TestResolve_FlushFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	var puts atomic.Int32
	cache := &mockWordCache{
		GetFunc:   func(word string) (string, bool) { return "", false },
		PutFunc:   func(word, replacement string) { puts.Add(1) },
		FlushFunc: func(ctx context.Context) error { return errors.New("read-only fs") },
	}
	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return candidates("quandary"), nil
	}}
	svc := newTestService(cache, dictLexicon(nil), syn)

	res := svc.Resolve(context.Background(), "complication")
	assert.Equal(t, "quandary", res.Replacement)
	assert.Equal(t, int32(1), puts.Load())

	out, err := svc.Simplify(context.Background(), "A complication arose.")
	require.NoError(t, err)
	assert.Equal(t, "A quandary arose.", out)
}

func TestResolve_LookupTimeoutApplied(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	cfg := DefaultConfig()
	cfg.LookupTimeout = 20 * time.Millisecond
	svc := NewService(newTestLogger(), newMemoryCache(), dictLexicon(nil), syn, cfg)

	res := svc.Resolve(context.Background(), "complication")
	assert.Equal(t, domain.TierUnresolved, res.Tier)
}

// ---------------------------------------------------------------------------
// Simplify
// ---------------------------------------------------------------------------

func TestSimplify_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryCache(), dictLexicon(nil), &mockSynonymProvider{})

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := svc.Simplify(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrNoInput)
	}
}

func TestSimplify_DictionaryReplacementsPreserveCase(t *testing.T) {
	t.Parallel()

	lex := dictLexicon(map[string]string{"utilize": "use", "approximately": "about"})
	svc := newTestService(newMemoryCache(), lex, &mockSynonymProvider{})

	out, err := svc.Simplify(context.Background(), "Utilize the tool. We waited approximately  ten minutes .")
	require.NoError(t, err)
	assert.Equal(t, "Use the tool. We waited about ten minutes.", out)
}

func TestSimplify_UnchangedTextOnlyNormalized(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryCache(), dictLexicon(nil), &mockSynonymProvider{})

	out, err := svc.Simplify(context.Background(), "  The cat sat   on the mat  ")
	require.NoError(t, err)
	assert.Equal(t, "The cat sat on the mat", out)
}

func TestSimplify_GracefulDegradation(t *testing.T) {
	t.Parallel()

	failing := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		return nil, errors.New("network down")
	}}
	lex := dictLexicon(map[string]string{"utilize": "use"}, "students")
	svc := newTestService(newMemoryCache(), lex, failing)

	out, err := svc.Simplify(context.Background(), "Students utilize elaborate apparatus.")
	require.NoError(t, err)
	assert.Equal(t, "Students use elaborate apparatus.", out)
	assert.NotEmpty(t, failing.FetchSynonymsCalls())
}

func TestSimplify_SplitsLongSentenceBeforeRewriting(t *testing.T) {
	t.Parallel()

	lex := dictLexicon(map[string]string{"utilize": "use"})
	svc := newTestService(newMemoryCache(), lex, &mockSynonymProvider{})

	in := "The workers had to utilize old tools for many long weeks in the cold and wet north of the country, which led to delays."
	out, err := svc.Simplify(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "The workers had to use old tools for many long weeks in the cold and wet north of the country. This led to delays.", out)
}

func TestSimplifyWithReport(t *testing.T) {
	t.Parallel()

	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		if word == "complication" {
			return candidates("quandary"), nil
		}
		return nil, nil
	}}
	lex := dictLexicon(map[string]string{"utilize": "use"}, "students")
	svc := newTestService(newMemoryCache(), lex, syn)

	report, err := svc.SimplifyWithReport(context.Background(), "Students utilize it. A complication arose!")
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID.String())
	assert.Equal(t, "Students use it. A quandary arose!", report.Simplified)
	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, 6, report.UniqueWords)
	require.Len(t, report.Replacements, 2)
	assert.Equal(t, "utilize", report.Replacements[0].Word)
	assert.Equal(t, domain.TierDictionary, report.Replacements[0].Tier)
	assert.Equal(t, "complication", report.Replacements[1].Word)
	assert.Equal(t, domain.TierRemote, report.Replacements[1].Tier)
	assert.Equal(t, 3, report.Tiers[domain.TierKeep])
	assert.Equal(t, 1, report.Tiers[domain.TierUnresolved])
}

func TestSimplify_ParallelWorkersBounded(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return nil, nil
	}}
	cfg := DefaultConfig()
	cfg.Workers = 2
	svc := NewService(newTestLogger(), newMemoryCache(), dictLexicon(nil), syn, cfg)

	_, err := svc.Simplify(context.Background(), "alpha bravo charlie delta echoes foxtrot golfing hotels indigo")
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Len(t, syn.FetchSynonymsCalls(), 9)
}

func TestSimplify_CancelledContext(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryCache(), dictLexicon(nil), &mockSynonymProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Simplify(ctx, "Some ordinary words here.")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimplify_CancelledRunStillFlushesResolvedWords(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := wordcache.NewMemoryStore()
	cache := wordcache.NewCache(newTestLogger(), store)
	syn := &mockSynonymProvider{FetchSynonymsFunc: func(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
		cancel()
		return nil, context.Canceled
	}}
	svc := NewService(newTestLogger(), cache, dictLexicon(map[string]string{"ambiguous": "unclear"}), syn, Config{Workers: 1})

	_, err := svc.Simplify(ctx, "Ambiguous notions persisted widely.")
	require.ErrorIs(t, err, context.Canceled)

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unclear", persisted["ambiguous"])
	assert.Equal(t, "notions", persisted["notions"])
	assert.NotContains(t, persisted, "persisted")
	assert.Equal(t, 0, cache.Dirty())
}

func TestSimplify_FlushUsesLiveContextAfterCancel(t *testing.T) {
	t.Parallel()

	var (
		flushes  atomic.Int32
		flushErr error
	)
	cache := &mockWordCache{
		GetFunc: func(string) (string, bool) { return "", false },
		PutFunc: func(string, string) {},
		FlushFunc: func(ctx context.Context) error {
			flushes.Add(1)
			flushErr = ctx.Err()
			return nil
		},
	}
	svc := newTestService(cache, dictLexicon(nil), &mockSynonymProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Simplify(ctx, "Some ordinary words here.")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), flushes.Load())
	assert.NoError(t, flushErr)
}
