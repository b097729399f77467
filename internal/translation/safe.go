package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// SafeConfig tunes the circuit breaker in front of a backend
type SafeConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again
	OpenTimeout time.Duration
}

// DefaultSafeConfig returns the breaker settings used by the application
func DefaultSafeConfig() SafeConfig {
	return SafeConfig{
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// Safe is a translator that never fails. Whenever the backend errors,
// panics, answers with blank text or the circuit is open, Translate returns
// the input unchanged.
type Safe struct {
	backend Translator
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// NewSafe wraps backend
func NewSafe(backend Translator, config SafeConfig, logger *slog.Logger) *Safe {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxFailures == 0 {
		config.MaxFailures = DefaultSafeConfig().MaxFailures
	}
	log := logger.With("translator", backend.Name())

	settings := gobreaker.Settings{
		Name:    "translation-" + backend.Name(),
		Timeout: config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled lookup says nothing about the backend's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("translation circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &Safe{
		backend: backend,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// Translate returns text translated from source to target, or text itself
// if no usable translation could be obtained
func (s *Safe) Translate(ctx context.Context, text, source, target string) (result string) {
	if strings.TrimSpace(text) == "" {
		return text
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("translation backend panicked", slog.Any("panic", r))
			result = text
		}
	}()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		translated, err := s.backend.Translate(ctx, text, source, target)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(translated) == "" {
			return nil, ErrEmptyTranslation
		}
		return translated, nil
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("translation failed, keeping source text", slog.String("error", err.Error()))
		}
		return text
	}

	translated, ok := out.(string)
	if !ok {
		return text
	}
	return translated
}

// State reports the breaker state, for status displays
func (s *Safe) State() string {
	return s.breaker.State().String()
}

// String implements fmt.Stringer
func (s *Safe) String() string {
	return fmt.Sprintf("%s (%s)", s.backend.Name(), s.State())
}
