// Package gemini summarizes text with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const summaryPrompt = `Summarize the following study material for a student with dyslexia.

Requirements:
- Write 3 to 5 short sentences in plain English
- Keep every key fact, name and number
- Do not add information that is not in the text
- Return only the summary, with no heading or list

Text:
---
%s
---`

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Summarizer produces summaries with a Gemini model.
type Summarizer struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewSummarizer creates a Summarizer using the Gemini API backend.
func NewSummarizer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Summarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Summarizer{
		client: client,
		model:  model,
		log:    logger.With("adapter", "gemini"),
	}, nil
}

// Summarize returns a summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(buildPrompt(text)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	summary, err := responseText(result)
	if err != nil {
		return "", err
	}

	s.log.DebugContext(ctx, "summary generated",
		slog.String("model", s.model),
		slog.Int("input_chars", len(text)),
		slog.Int("summary_chars", len(summary)),
	)
	return summary, nil
}

// Name identifies the backend in results.
func (s *Summarizer) Name() string { return "gemini" }

func buildPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, strings.TrimSpace(text))
}

// responseText concatenates the text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
