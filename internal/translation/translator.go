package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultSourceLang = "en"
	DefaultTargetLang = "vi"
)

// ErrEmptyTranslation is reported when a backend answers with blank text
var ErrEmptyTranslation = errors.New("empty translation")

// Translator translates text from one language to another
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// Config selects and configures a translation backend
type Config struct {
	Provider    string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	GoogleURL   string
}

// New creates the backend named by config.Provider. An empty provider
// selects the Google web endpoint.
func New(ctx context.Context, config Config) (Translator, error) {
	switch strings.ToLower(config.Provider) {
	case "", ProviderGoogle:
		return NewGoogleTranslator(config.GoogleURL), nil
	case ProviderOpenAI:
		return NewOpenAITranslator(config.OpenAIKey, config.OpenAIModel), nil
	case ProviderGemini:
		return NewGeminiTranslator(ctx, config.GeminiKey, config.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// ValidateLanguage checks that code is a well-formed BCP 47 language tag
func ValidateLanguage(code string) error {
	if code == "" {
		return fmt.Errorf("language code is empty")
	}
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return nil
}

// languageName returns the English name of a language code for prompts,
// or the code itself when it cannot be parsed
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// translationPrompt is the instruction sent to chat-style backends
func translationPrompt(text, source, target string) string {
	return fmt.Sprintf("Translate the following %s dictionary definition to %s. Respond with only the translation, nothing else.\n\n%s",
		languageName(source), languageName(target), text)
}
