// Package lexicon holds the curated simplification dictionary and the keep-set.
// Both are static: loaded once at startup and never mutated.
package lexicon

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/readeasy/internal/domain"
)

//go:embed data/dictionary.yaml data/keep_words.yaml
var dataFS embed.FS

const (
	dictionaryFile = "data/dictionary.yaml"
	keepWordsFile  = "data/keep_words.yaml"
)

// Lexicon is an immutable word -> simpler word table plus the set of words
// that must never be replaced. Safe for concurrent use.
type Lexicon struct {
	replacements map[string]string
	keep         map[string]struct{}
}

type keepFile struct {
	Keep []string `yaml:"keep"`
}

// Default returns the lexicon built from the embedded resources.
func Default() (*Lexicon, error) {
	return Load("", "")
}

// Load builds a lexicon from YAML files. An empty path selects the embedded default
// for that resource.
func Load(dictionaryPath, keepWordsPath string) (*Lexicon, error) {
	dictData, err := readResource(dictionaryPath, dictionaryFile)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read dictionary: %w", err)
	}
	keepData, err := readResource(keepWordsPath, keepWordsFile)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read keep words: %w", err)
	}
	return Parse(dictData, keepData)
}

// Parse builds a lexicon from raw YAML. The dictionary document is a map of
// section name to (word -> replacement); the keep document has a "keep" list.
// Keys are normalized to lowercase and must be unique across sections.
func Parse(dictionaryYAML, keepWordsYAML []byte) (*Lexicon, error) {
	var sections map[string]map[string]string
	if err := yaml.Unmarshal(dictionaryYAML, &sections); err != nil {
		return nil, fmt.Errorf("lexicon: decode dictionary: %w", err)
	}

	var kf keepFile
	if err := yaml.Unmarshal(keepWordsYAML, &kf); err != nil {
		return nil, fmt.Errorf("lexicon: decode keep words: %w", err)
	}

	l := &Lexicon{
		replacements: make(map[string]string),
		keep:         make(map[string]struct{}, len(kf.Keep)),
	}

	// Sorted section order keeps duplicate errors deterministic.
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var fieldErrs []domain.FieldError
	for _, name := range names {
		for word, simpler := range sections[name] {
			key := domain.NormalizeWord(word)
			value := domain.NormalizeWord(simpler)
			switch {
			case key == "":
				fieldErrs = append(fieldErrs, domain.FieldError{Field: name, Message: "empty word"})
				continue
			case value == "":
				fieldErrs = append(fieldErrs, domain.FieldError{Field: name + "." + key, Message: "empty replacement"})
				continue
			}
			if _, dup := l.replacements[key]; dup {
				fieldErrs = append(fieldErrs, domain.FieldError{Field: name + "." + key, Message: "duplicate word"})
				continue
			}
			l.replacements[key] = value
		}
	}
	if len(fieldErrs) > 0 {
		return nil, fmt.Errorf("lexicon: %w", domain.NewValidationErrors(fieldErrs))
	}

	for _, w := range kf.Keep {
		if key := domain.NormalizeWord(w); key != "" {
			l.keep[key] = struct{}{}
		}
	}

	return l, nil
}

// Lookup returns the curated replacement for word (case-insensitive).
func (l *Lexicon) Lookup(word string) (string, bool) {
	s, ok := l.replacements[domain.NormalizeWord(word)]
	return s, ok
}

// Keep reports whether word is in the keep-set (case-insensitive).
func (l *Lexicon) Keep(word string) bool {
	_, ok := l.keep[domain.NormalizeWord(word)]
	return ok
}

// Len returns the number of curated replacements.
func (l *Lexicon) Len() int { return len(l.replacements) }

// KeepLen returns the size of the keep-set.
func (l *Lexicon) KeepLen() int { return len(l.keep) }

func readResource(path, embedded string) ([]byte, error) {
	if path == "" {
		return dataFS.ReadFile(embedded)
	}
	return os.ReadFile(path)
}
