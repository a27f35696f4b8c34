package offline

import (
	"context"

	"github.com/heartmarshall/readeasy/internal/provider"
)

// Stub is a synonym provider for offline runs.
// Returns nil (no remote candidates), so every word the dictionary
// does not cover is left unchanged.
type Stub struct{}

// NewStub creates a new offline synonym provider.
func NewStub() *Stub { return &Stub{} }

// FetchSynonyms always returns nil.
func (s *Stub) FetchSynonyms(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
	return nil, nil
}
