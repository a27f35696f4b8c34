package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdirEmpty moves into an empty temp dir so ./config.yaml is never picked up.
func chdirEmpty(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

const validYAML = `
log:
  level: "debug"
  format: "json"

simplifier:
  long_sentence_words: 25
  short_word_max: 3
  max_candidates: 10
  simpler_ratio: 0.75
  workers: 4

cache:
  driver: "sqlite"
  sqlite_path: "/tmp/cache.db"

datamuse:
  enabled: true
  base_url: "http://localhost:9999"
  timeout: "2s"

summarizer:
  backend: "gemini"

gemini:
  api_key: "key"

keywords:
  top_n: 3

watcher:
  input_dir: "in"
  output_dir: "out"
  max_concurrent: 5
`

func defaultConfig() Config {
	return Config{
		Simplifier:  SimplifierConfig{LongSentenceWords: 20, ShortWordMax: 4, MaxCandidates: 15, SimplerRatio: 0.8},
		Cache:       CacheConfig{Driver: CacheDriverFile, Path: "word_cache.json"},
		Datamuse:    DatamuseConfig{Enabled: true, Timeout: 3 * time.Second},
		Summarizer:  SummarizerConfig{Backend: SummarizerHuggingFace},
		HuggingFace: HuggingFaceConfig{SummaryMinLength: 40, SummaryMaxLength: 130},
		Keywords:    KeywordsConfig{TopN: 6},
	}
}

func TestLoadFrom_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Simplifier.LongSentenceWords != 25 {
		t.Errorf("simplifier.long_sentence_words = %d, want 25", cfg.Simplifier.LongSentenceWords)
	}
	if cfg.Simplifier.SimplerRatio != 0.75 {
		t.Errorf("simplifier.simpler_ratio = %v, want 0.75", cfg.Simplifier.SimplerRatio)
	}
	if cfg.Simplifier.Workers != 4 {
		t.Errorf("simplifier.workers = %d, want 4", cfg.Simplifier.Workers)
	}
	if cfg.Cache.Driver != CacheDriverSQLite || cfg.Cache.SQLitePath != "/tmp/cache.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Datamuse.Timeout != 2*time.Second {
		t.Errorf("datamuse.timeout = %v, want 2s", cfg.Datamuse.Timeout)
	}
	if cfg.Summarizer.Backend != SummarizerGemini {
		t.Errorf("summarizer.backend = %q", cfg.Summarizer.Backend)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("gemini.model = %q, want default", cfg.Gemini.Model)
	}
	if cfg.Keywords.TopN != 3 {
		t.Errorf("keywords.top_n = %d, want 3", cfg.Keywords.TopN)
	}
	if cfg.Watcher.MaxConcurrent != 5 {
		t.Errorf("watcher.max_concurrent = %d, want 5", cfg.Watcher.MaxConcurrent)
	}
}

func TestLoadFrom_ENVOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SIMPLIFIER_LONG_SENTENCE_WORDS", "30")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Simplifier.LongSentenceWords != 30 {
		t.Errorf("simplifier.long_sentence_words = %d, want 30 (ENV override)", cfg.Simplifier.LongSentenceWords)
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Simplifier.LongSentenceWords != 20 {
		t.Errorf("long_sentence_words = %d, want 20", cfg.Simplifier.LongSentenceWords)
	}
	if cfg.Simplifier.MaxCandidates != 15 {
		t.Errorf("max_candidates = %d, want 15", cfg.Simplifier.MaxCandidates)
	}
	if cfg.Simplifier.SimplerRatio != 0.8 {
		t.Errorf("simpler_ratio = %v, want 0.8", cfg.Simplifier.SimplerRatio)
	}
	if cfg.Simplifier.ShortWordMax != 4 {
		t.Errorf("short_word_max = %d, want 4", cfg.Simplifier.ShortWordMax)
	}
	if cfg.Cache.Driver != CacheDriverFile || cfg.Cache.Path != "word_cache.json" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Datamuse.Timeout != 3*time.Second || !cfg.Datamuse.Enabled {
		t.Errorf("datamuse = %+v", cfg.Datamuse)
	}
	if cfg.HuggingFace.SummaryModel != "facebook/bart-large-cnn" {
		t.Errorf("huggingface.summary_model = %q", cfg.HuggingFace.SummaryModel)
	}
	if cfg.Keywords.TopN != 6 {
		t.Errorf("keywords.top_n = %d, want 6", cfg.Keywords.TopN)
	}
}

func TestLoadFrom_ExplicitPathNotFound(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "log: [unclosed")

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "ratio zero", mutate: func(c *Config) { c.Simplifier.SimplerRatio = 0 }, wantErr: true},
		{name: "ratio above one", mutate: func(c *Config) { c.Simplifier.SimplerRatio = 1.5 }, wantErr: true},
		{name: "ratio exactly one", mutate: func(c *Config) { c.Simplifier.SimplerRatio = 1 }},
		{name: "zero sentence threshold", mutate: func(c *Config) { c.Simplifier.LongSentenceWords = 0 }, wantErr: true},
		{name: "zero candidates", mutate: func(c *Config) { c.Simplifier.MaxCandidates = 0 }, wantErr: true},
		{name: "zero short word max", mutate: func(c *Config) { c.Simplifier.ShortWordMax = 0 }, wantErr: true},
		{name: "short word max one", mutate: func(c *Config) { c.Simplifier.ShortWordMax = 1 }},
		{name: "negative workers", mutate: func(c *Config) { c.Simplifier.Workers = -1 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Cache.Driver = "redis" }, wantErr: true},
		{name: "driver case-insensitive", mutate: func(c *Config) { c.Cache.Driver = " Memory " }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Cache.Driver = CacheDriverPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Cache.Driver = CacheDriverPostgres
			c.Database.DSN = "postgres://u:p@localhost/db"
		}},
		{name: "file without path", mutate: func(c *Config) { c.Cache.Path = "" }, wantErr: true},
		{name: "datamuse zero timeout", mutate: func(c *Config) { c.Datamuse.Timeout = 0 }, wantErr: true},
		{name: "datamuse disabled zero timeout", mutate: func(c *Config) {
			c.Datamuse.Enabled = false
			c.Datamuse.Timeout = 0
		}},
		{name: "unknown summarizer", mutate: func(c *Config) { c.Summarizer.Backend = "openai" }, wantErr: true},
		{name: "summary min above max", mutate: func(c *Config) { c.HuggingFace.SummaryMinLength = 200 }, wantErr: true},
		{name: "zero keywords", mutate: func(c *Config) { c.Keywords.TopN = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsCacheDriver(t *testing.T) {
	t.Parallel()

	for _, d := range CacheDrivers() {
		if !IsCacheDriver(d) {
			t.Errorf("IsCacheDriver(%q) = false", d)
		}
	}
	if IsCacheDriver("redis") {
		t.Error("IsCacheDriver(redis) = true")
	}
}
