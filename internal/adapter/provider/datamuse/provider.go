package datamuse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/readeasy/internal/provider"
)

const (
	defaultBaseURL = "https://api.datamuse.com"
	defaultTimeout = 3 * time.Second
	defaultMax     = 15
)

// Provider fetches synonym candidates from the Datamuse API.
// A single attempt is made per word: the caller treats failure as
// "no candidates" and no retry is performed.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default Datamuse URL.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, defaultTimeout, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL and timeout.
func NewProviderWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "datamuse"),
	}
}

// FetchSynonyms returns up to max synonym candidates for word in the
// API's relevance order. An empty slice means the API knows no synonyms.
func (p *Provider) FetchSynonyms(ctx context.Context, word string, max int) ([]provider.SynonymCandidate, error) {
	if max <= 0 {
		max = defaultMax
	}

	q := url.Values{}
	q.Set("rel_syn", word)
	q.Set("max", strconv.Itoa(max))
	reqURL := p.baseURL + "/words?" + q.Encode()

	p.log.DebugContext(ctx, "datamuse request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("datamuse: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datamuse: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datamuse: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("datamuse: read body: %w", err)
	}

	var words []apiWord
	if err := json.Unmarshal(body, &words); err != nil {
		return nil, fmt.Errorf("datamuse: decode json: %w", err)
	}

	result := mapAPIResponse(words, max)

	p.log.DebugContext(ctx, "datamuse response",
		slog.String("word", word),
		slog.Int("status", resp.StatusCode),
		slog.Int("candidates", len(result)),
	)

	return result, nil
}

// mapAPIResponse drops blank items and caps the list at max,
// preserving the API order.
func mapAPIResponse(words []apiWord, max int) []provider.SynonymCandidate {
	result := make([]provider.SynonymCandidate, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		result = append(result, provider.SynonymCandidate{Word: text, Relevance: w.Score})
		if len(result) == max {
			break
		}
	}
	return result
}
