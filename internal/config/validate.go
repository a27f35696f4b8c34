package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Simplifier.validate(); err != nil {
		return fmt.Errorf("simplifier: %w", err)
	}

	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	if !IsCacheDriver(c.Cache.Driver) {
		return fmt.Errorf("cache.driver must be one of %s (got %q)", strings.Join(CacheDrivers(), ", "), c.Cache.Driver)
	}
	if c.Cache.Driver == CacheDriverPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for cache driver %q", CacheDriverPostgres)
	}
	if c.Cache.Driver == CacheDriverFile && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required for cache driver %q", CacheDriverFile)
	}

	if c.Datamuse.Enabled && c.Datamuse.Timeout <= 0 {
		return fmt.Errorf("datamuse.timeout must be > 0 (got %v)", c.Datamuse.Timeout)
	}

	c.Summarizer.Backend = strings.ToLower(strings.TrimSpace(c.Summarizer.Backend))
	switch c.Summarizer.Backend {
	case SummarizerHuggingFace, SummarizerGemini:
	default:
		return fmt.Errorf("summarizer.backend must be %q or %q (got %q)", SummarizerHuggingFace, SummarizerGemini, c.Summarizer.Backend)
	}

	if c.HuggingFace.SummaryMinLength > c.HuggingFace.SummaryMaxLength {
		return fmt.Errorf("huggingface.summary_min_length (%d) must not exceed summary_max_length (%d)",
			c.HuggingFace.SummaryMinLength, c.HuggingFace.SummaryMaxLength)
	}

	if c.Keywords.TopN <= 0 {
		return fmt.Errorf("keywords.top_n must be > 0 (got %d)", c.Keywords.TopN)
	}

	return nil
}

func (s *SimplifierConfig) validate() error {
	if s.SimplerRatio <= 0 || s.SimplerRatio > 1 {
		return fmt.Errorf("simpler_ratio must be in (0, 1] (got %v)", s.SimplerRatio)
	}
	if s.LongSentenceWords <= 0 {
		return fmt.Errorf("long_sentence_words must be > 0 (got %d)", s.LongSentenceWords)
	}
	if s.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be > 0 (got %d)", s.MaxCandidates)
	}
	if s.ShortWordMax < 1 {
		return fmt.Errorf("short_word_max must be >= 1 (got %d)", s.ShortWordMax)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", s.Workers)
	}
	return nil
}
