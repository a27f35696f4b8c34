package huggingface

import (
	"context"
	"fmt"
	"log/slog"
)

const defaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// Embedder computes sentence embeddings via the feature-extraction pipeline.
type Embedder struct {
	client
	model string
}

// NewEmbedder creates an Embedder for model (default all-MiniLM-L6-v2).
func NewEmbedder(opts Options, model string, logger *slog.Logger) *Embedder {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &Embedder{
		client: newClient(opts, logger, "huggingface_embedder"),
		model:  model,
	}
}

// Embed returns one vector per input, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float64
	path := "/models/" + modelPath(e.model) + "/pipeline/feature-extraction"
	if err := e.postJSON(ctx, path, embedRequest{Inputs: texts}, &vectors); err != nil {
		return nil, fmt.Errorf("huggingface: embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("huggingface: embed: got %d vectors for %d inputs", len(vectors), len(texts))
	}

	e.log.DebugContext(ctx, "embeddings computed", slog.Int("inputs", len(texts)))
	return vectors, nil
}
