package domain

// Tier identifies which resolution source produced a replacement.
type Tier string

const (
	TierKeep       Tier = "keep"
	TierCache      Tier = "cache"
	TierDictionary Tier = "dictionary"
	TierRemote     Tier = "remote"
	TierUnresolved Tier = "unresolved"
)

// AllTiers lists tiers in precedence order.
var AllTiers = []Tier{TierKeep, TierCache, TierDictionary, TierRemote, TierUnresolved}

// WordEntry is a lowercase token together with its complexity score.
type WordEntry struct {
	Text  string
	Score int
}

// Resolution is the outcome of resolving a single word.
// Replacement equals Word when no simpler form was chosen.
type Resolution struct {
	Word        string
	Replacement string
	Tier        Tier
}

// Changed reports whether the replacement differs from the word, ignoring case.
func (r Resolution) Changed() bool {
	return NormalizeWord(r.Word) != NormalizeWord(r.Replacement)
}

// Sentence is a segmented sentence and its terminal punctuation.
// Punct is empty for a trailing fragment that had none.
type Sentence struct {
	Text  string
	Punct string
}

// TextStats is a readability snapshot of a text.
type TextStats struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}
