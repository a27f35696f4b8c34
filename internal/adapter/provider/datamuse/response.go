package datamuse

// apiWord represents a single item in the Datamuse /words response.
// The API returns a JSON array ordered by relevance.
type apiWord struct {
	Word  string   `json:"word"`
	Score int      `json:"score"`
	Tags  []string `json:"tags,omitempty"`
}
