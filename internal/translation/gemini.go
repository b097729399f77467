package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator translates with a Google Gemini model
type GeminiTranslator struct {
	model  string
	client *genai.Client
}

// NewGeminiTranslator creates a new Gemini translator. An empty model
// selects gemini-2.0-flash.
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	return NewGeminiTranslatorWithConfig(ctx, model, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// NewGeminiTranslatorWithConfig creates a Gemini translator with a custom
// client configuration
func NewGeminiTranslatorWithConfig(ctx context.Context, model string, config *genai.ClientConfig) (*GeminiTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{
		model:  model,
		client: client,
	}, nil
}

// Name returns the backend name
func (t *GeminiTranslator) Name() string {
	return ProviderGemini
}

// Translate translates text from source to target
func (t *GeminiTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(translationPrompt(text, source, target)), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", ErrEmptyTranslation
	}
	return translation, nil
}
