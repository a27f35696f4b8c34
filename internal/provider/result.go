package provider

// SynonymCandidate is a single synonym suggestion from an external thesaurus.
// Order of candidates returned by a provider is significant: it is the
// provider's relevance order and is used to break complexity ties.
type SynonymCandidate struct {
	Word string
	// Relevance is the provider's own ranking score. Zero when the provider
	// does not report one.
	Relevance int
}
