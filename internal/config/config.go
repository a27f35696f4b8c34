package config

import (
	"slices"
	"time"
)

// Cache drivers.
const (
	CacheDriverFile     = "file"
	CacheDriverPostgres = "postgres"
	CacheDriverSQLite   = "sqlite"
	CacheDriverMemory   = "memory"
)

// Summarizer backends.
const (
	SummarizerHuggingFace = "huggingface"
	SummarizerGemini      = "gemini"
)

// Config is the root application configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Simplifier  SimplifierConfig  `yaml:"simplifier"`
	Cache       CacheConfig       `yaml:"cache"`
	Database    DatabaseConfig    `yaml:"database"`
	Datamuse    DatamuseConfig    `yaml:"datamuse"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Keywords    KeywordsConfig    `yaml:"keywords"`
	Watcher     WatcherConfig     `yaml:"watcher"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// SimplifierConfig holds the lexical simplification parameters.
type SimplifierConfig struct {
	LongSentenceWords int     `yaml:"long_sentence_words" env:"SIMPLIFIER_LONG_SENTENCE_WORDS" env-default:"20"`
	ShortWordMax      int     `yaml:"short_word_max"      env:"SIMPLIFIER_SHORT_WORD_MAX"      env-default:"4"`
	MaxCandidates     int     `yaml:"max_candidates"      env:"SIMPLIFIER_MAX_CANDIDATES"      env-default:"15"`
	SimplerRatio      float64 `yaml:"simpler_ratio"       env:"SIMPLIFIER_SIMPLER_RATIO"       env-default:"0.8"`
	// Workers bounds parallel word resolution; 0 means one worker per unique word.
	Workers        int    `yaml:"workers"          env:"SIMPLIFIER_WORKERS"          env-default:"0"`
	DictionaryPath string `yaml:"dictionary_path"  env:"SIMPLIFIER_DICTIONARY_PATH"`
	KeepWordsPath  string `yaml:"keep_words_path"  env:"SIMPLIFIER_KEEP_WORDS_PATH"`
}

// CacheConfig selects and configures the persisted word cache.
type CacheConfig struct {
	Driver     string `yaml:"driver"      env:"CACHE_DRIVER"      env-default:"file"`
	Path       string `yaml:"path"        env:"CACHE_PATH"        env-default:"word_cache.json"`
	SQLitePath string `yaml:"sqlite_path" env:"CACHE_SQLITE_PATH" env-default:"word_cache.db"`
}

// DatabaseConfig holds PostgreSQL connection settings. Used only by the postgres cache driver.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DatamuseConfig holds settings for the remote synonym lookup.
type DatamuseConfig struct {
	Enabled bool          `yaml:"enabled"  env:"DATAMUSE_ENABLED"  env-default:"true"`
	BaseURL string        `yaml:"base_url" env:"DATAMUSE_BASE_URL" env-default:"https://api.datamuse.com"`
	Timeout time.Duration `yaml:"timeout"  env:"DATAMUSE_TIMEOUT"  env-default:"3s"`
}

// SummarizerConfig selects the summarization backend.
type SummarizerConfig struct {
	Backend string `yaml:"backend" env:"SUMMARIZER_BACKEND" env-default:"huggingface"`
}

// HuggingFaceConfig holds Hugging Face Inference API settings.
type HuggingFaceConfig struct {
	Token            string        `yaml:"token"              env:"HF_TOKEN"`
	BaseURL          string        `yaml:"base_url"           env:"HF_BASE_URL"           env-default:"https://router.huggingface.co/hf-inference"`
	SummaryModel     string        `yaml:"summary_model"      env:"HF_SUMMARY_MODEL"      env-default:"facebook/bart-large-cnn"`
	EmbeddingModel   string        `yaml:"embedding_model"    env:"HF_EMBEDDING_MODEL"    env-default:"sentence-transformers/all-MiniLM-L6-v2"`
	SummaryMinLength int           `yaml:"summary_min_length" env:"HF_SUMMARY_MIN_LENGTH" env-default:"40"`
	SummaryMaxLength int           `yaml:"summary_max_length" env:"HF_SUMMARY_MAX_LENGTH" env-default:"130"`
	Timeout          time.Duration `yaml:"timeout"            env:"HF_TIMEOUT"            env-default:"60s"`
}

// GeminiConfig holds settings for the Gemini summarizer backend.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"   env:"GEMINI_MODEL"   env-default:"gemini-2.5-flash"`
}

// KeywordsConfig holds keyword extraction settings.
type KeywordsConfig struct {
	TopN int `yaml:"top_n" env:"KEYWORDS_TOP_N" env-default:"6"`
}

// WatcherConfig holds directory watch settings.
type WatcherConfig struct {
	InputDir      string `yaml:"input_dir"      env:"WATCHER_INPUT_DIR"      env-default:"data/input"`
	OutputDir     string `yaml:"output_dir"     env:"WATCHER_OUTPUT_DIR"     env-default:"data/output"`
	MaxConcurrent int    `yaml:"max_concurrent" env:"WATCHER_MAX_CONCURRENT" env-default:"2"`
}

// CacheDrivers returns the supported cache drivers.
func CacheDrivers() []string {
	return []string{CacheDriverFile, CacheDriverPostgres, CacheDriverSQLite, CacheDriverMemory}
}

// IsCacheDriver reports whether driver is supported.
func IsCacheDriver(driver string) bool {
	return slices.Contains(CacheDrivers(), driver)
}
