package lookup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"codeberg.org/snonux/smartdict/internal/dictionary"
	"codeberg.org/snonux/smartdict/internal/render"
)

var (
	// ErrEmptyQuery is returned for blank input or input equal to the
	// search field placeholder
	ErrEmptyQuery = errors.New("empty query")
	// ErrSessionClosed is returned by Lookup after Close
	ErrSessionClosed = errors.New("session closed")
)

// Dictionary fetches dictionary and thesaurus results
type Dictionary interface {
	Define(ctx context.Context, term string) (*dictionary.Result, error)
	Thesaurus(ctx context.Context, term string) (*dictionary.Result, error)
}

// Translator translates text and never fails. On any problem it returns
// its input.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// Options configures a Session
type Options struct {
	Source         string        // language of the definitions
	Target         string        // language translations are revealed in
	TranslateDelay time.Duration // pause between two translation calls
	RevealDelay    time.Duration // pause between two revealed characters
	Placeholder    string        // search field hint, rejected as a query
	CacheEnabled   bool
}

// DefaultOptions returns the options used by the desktop application
func DefaultOptions() Options {
	return Options{
		Source:         "en",
		Target:         "vi",
		TranslateDelay: 300 * time.Millisecond,
		RevealDelay:    15 * time.Millisecond,
		CacheEnabled:   true,
	}
}

// Session performs lookups for one application session. All buffer
// mutations go through the dispatcher.
type Session struct {
	dict       Dictionary
	translator Translator
	buf        render.Buffer
	ui         Dispatcher
	cache      *ResultCache
	opts       Options
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current *Task
	nextID  int
}

// NewSession creates a new session
func NewSession(dict Dictionary, translator Translator, buf render.Buffer, ui Dispatcher, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		dict:       dict,
		translator: translator,
		buf:        buf,
		ui:         ui,
		cache:      NewResultCache(),
		opts:       opts,
		log:        logger.With("component", "lookup"),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Validate trims input and rejects it when it is empty or equal to the
// placeholder
func Validate(input, placeholder string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" || (placeholder != "" && query == strings.TrimSpace(placeholder)) {
		return "", ErrEmptyQuery
	}
	return query, nil
}

// Lookup validates input and starts a lookup task in the given view. The
// previous task, if still running, is cancelled. Lookup does not wait for
// any network I/O and may be called from the UI goroutine.
func (s *Session) Lookup(mode Mode, input string) (*Task, error) {
	query, err := Validate(input, s.opts.Placeholder)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.current != nil {
		s.current.Cancel()
	}
	s.nextID++
	task := newTask(s.ctx, s.nextID, mode, query)
	s.current = task
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.Debug("lookup started", "task", task.ID, "mode", mode.String(), "query", query)
	go s.run(task)

	return task, nil
}

// Current returns the most recently started task, or nil
func (s *Session) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cache returns the session's result cache
func (s *Session) Cache() *ResultCache {
	return s.cache
}

// Wait blocks until every started task has finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// Cancel stops running tasks and rejects further lookups without waiting.
// It is safe to call from the UI goroutine.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// Close cancels running tasks and waits for them to stop. The dispatcher
// must keep serving, or drop, steps until Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
