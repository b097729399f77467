package cli

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/smartdict/internal/dictionary"
)

// Settings is the resolved configuration after merging flags, the config
// file and the environment
type Settings struct {
	DictionaryURL     string
	DictionaryKey     string
	ThesaurusURL      string
	ThesaurusKey      string
	DictionaryTimeout time.Duration

	TranslationProvider string
	SourceLang          string
	TargetLang          string
	TranslateDelay      time.Duration
	RevealDelay         time.Duration
	GoogleURL           string
	OpenAIKey           string
	OpenAIModel         string
	GeminiKey           string
	GeminiModel         string

	CacheEnabled bool
	NotesDir     string
	NotesBackend string

	LogLevel  string
	LogFormat string
}

// setDefaults registers defaults for keys that have no flag
func setDefaults() {
	viper.SetDefault("dictionary.url", dictionary.DefaultDictionaryURL)
	viper.SetDefault("thesaurus.url", dictionary.DefaultThesaurusURL)
	viper.SetDefault("dictionary.timeout", dictionary.DefaultTimeout)
	viper.SetDefault("translation.provider", "google")
	viper.SetDefault("translation.source", "en")
	viper.SetDefault("translation.target", "vi")
	viper.SetDefault("translation.delay", 300*time.Millisecond)
	viper.SetDefault("render.reveal_delay", 15*time.Millisecond)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("notes.dir", DefaultNotesDir())
	viper.SetDefault("notes.backend", "json")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")
}

// LoadSettings reads the current viper state
func LoadSettings() Settings {
	setDefaults()

	return Settings{
		DictionaryURL:       viper.GetString("dictionary.url"),
		DictionaryKey:       viper.GetString("dictionary.key"),
		ThesaurusURL:        viper.GetString("thesaurus.url"),
		ThesaurusKey:        viper.GetString("thesaurus.key"),
		DictionaryTimeout:   viper.GetDuration("dictionary.timeout"),
		TranslationProvider: viper.GetString("translation.provider"),
		SourceLang:          viper.GetString("translation.source"),
		TargetLang:          viper.GetString("translation.target"),
		TranslateDelay:      viper.GetDuration("translation.delay"),
		RevealDelay:         viper.GetDuration("render.reveal_delay"),
		GoogleURL:           viper.GetString("translation.google_url"),
		OpenAIKey:           GetOpenAIKey(),
		OpenAIModel:         viper.GetString("translation.openai_model"),
		GeminiKey:           GetGeminiKey(),
		GeminiModel:         viper.GetString("translation.gemini_model"),
		CacheEnabled:        viper.GetBool("cache.enabled"),
		NotesDir:            viper.GetString("notes.dir"),
		NotesBackend:        viper.GetString("notes.backend"),
		LogLevel:            viper.GetString("log.level"),
		LogFormat:           viper.GetString("log.format"),
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}
