package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleTranslateURL = "https://translate.googleapis.com/translate_a/single"
	googleTimeout      = 10 * time.Second
)

// GoogleTranslator uses the keyless Google Translate web endpoint
type GoogleTranslator struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleTranslator creates a Google translator. An empty baseURL selects
// the public endpoint.
func NewGoogleTranslator(baseURL string) *GoogleTranslator {
	if baseURL == "" {
		baseURL = googleTranslateURL
	}
	return &GoogleTranslator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: googleTimeout,
		},
	}
}

// Name returns the backend name
func (g *GoogleTranslator) Name() string {
	return ProviderGoogle
}

// Translate translates text from source to target
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("google translate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return parseGoogleSentences(payload)
}

// parseGoogleSentences joins the translated sentences of a response. The
// first element of the payload is a list of [translated, original, ...]
// tuples, one per sentence.
func parseGoogleSentences(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyTranslation
	}

	var sentences [][]any
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}

	var sb strings.Builder
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		if s, ok := sentence[0].(string); ok {
			sb.WriteString(s)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
