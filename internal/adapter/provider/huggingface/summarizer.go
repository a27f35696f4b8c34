package huggingface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

const defaultSummaryModel = "facebook/bart-large-cnn"

// SummaryLength bounds the generated summary, in model tokens.
type SummaryLength struct {
	Min int
	Max int
}

type summaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters summaryParameters `json:"parameters"`
}

type summaryParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type summaryItem struct {
	SummaryText string `json:"summary_text"`
}

// Summarizer produces abstractive summaries with a BART-style model.
type Summarizer struct {
	client
	model  string
	length SummaryLength
}

// NewSummarizer creates a Summarizer for model (default facebook/bart-large-cnn).
func NewSummarizer(opts Options, model string, length SummaryLength, logger *slog.Logger) *Summarizer {
	if model == "" {
		model = defaultSummaryModel
	}
	if length.Max <= 0 {
		length = SummaryLength{Min: 40, Max: 130}
	}
	return &Summarizer{
		client: newClient(opts, logger, "huggingface_summarizer"),
		model:  model,
		length: length,
	}
}

// Summarize returns a summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	payload := summaryRequest{
		Inputs:     text,
		Parameters: summaryParameters{MaxLength: s.length.Max, MinLength: s.length.Min},
	}

	var items []summaryItem
	if err := s.postJSON(ctx, "/models/"+modelPath(s.model), payload, &items); err != nil {
		return "", fmt.Errorf("huggingface: summarize: %w", err)
	}
	if len(items) == 0 || strings.TrimSpace(items[0].SummaryText) == "" {
		return "", errors.New("huggingface: summarize: empty response")
	}

	summary := strings.TrimSpace(items[0].SummaryText)
	s.log.DebugContext(ctx, "summary generated",
		slog.String("model", s.model),
		slog.Int("input_chars", len(text)),
		slog.Int("summary_chars", len(summary)),
	)
	return summary, nil
}

// Name identifies the backend in results.
func (s *Summarizer) Name() string { return "huggingface" }

// modelPath escapes each segment of an "org/name" model id.
func modelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
