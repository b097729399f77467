package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultDictionaryURL = "https://www.dictionaryapi.com/api/v3/references/collegiate/json"
	DefaultThesaurusURL  = "https://www.dictionaryapi.com/api/v3/references/thesaurus/json"
	DefaultTimeout       = 5 * time.Second
)

var (
	// ErrLookupFailed is returned for transport errors and non-2xx responses
	ErrLookupFailed = errors.New("dictionary lookup failed")
	// ErrMissingKey is returned when no API key is configured for an endpoint
	ErrMissingKey = errors.New("dictionary API key not configured")
)

// Config holds endpoint and credential settings
type Config struct {
	DictionaryURL string
	DictionaryKey string
	ThesaurusURL  string
	ThesaurusKey  string
	Timeout       time.Duration
}

// Client queries the collegiate dictionary and the thesaurus
type Client struct {
	config     Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a dictionary client. Empty URLs and timeout fall back to
// the public Merriam-Webster endpoints and DefaultTimeout.
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.DictionaryURL == "" {
		config.DictionaryURL = DefaultDictionaryURL
	}
	if config.ThesaurusURL == "" {
		config.ThesaurusURL = DefaultThesaurusURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        logger.With("adapter", "dictionary"),
	}
}

// Define looks up term in the collegiate dictionary
func (c *Client) Define(ctx context.Context, term string) (*Result, error) {
	return c.fetch(ctx, "collegiate", c.config.DictionaryURL, c.config.DictionaryKey, term)
}

// Thesaurus looks up synonyms and antonyms of term
func (c *Client) Thesaurus(ctx context.Context, term string) (*Result, error) {
	return c.fetch(ctx, "thesaurus", c.config.ThesaurusURL, c.config.ThesaurusKey, term)
}

func (c *Client) fetch(ctx context.Context, ref, baseURL, key, term string) (*Result, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: %w", ref, ErrMissingKey)
	}

	reqURL := strings.TrimRight(baseURL, "/") + "/" + escapeTerm(term) + "?" + url.Values{"key": {key}}.Encode()

	c.log.DebugContext(ctx, "dictionary request", slog.String("ref", ref), slog.String("term", term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "dictionary request failed", slog.String("ref", ref), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrLookupFailed, err)
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	c.log.DebugContext(ctx, "dictionary response",
		slog.String("ref", ref),
		slog.String("term", term),
		slog.String("kind", result.Kind.String()),
		slog.Int("entries", len(result.Entries)),
		slog.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}

// escapeTerm percent-encodes term for the URL path. Slashes stay literal,
// so "and/or" is requested as written.
func escapeTerm(term string) string {
	parts := strings.Split(term, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
