package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"codeberg.org/snonux/smartdict/internal/archive"
	"codeberg.org/snonux/smartdict/internal/batch"
	"codeberg.org/snonux/smartdict/internal/cli"
	"codeberg.org/snonux/smartdict/internal/dictionary"
	"codeberg.org/snonux/smartdict/internal/gui"
	"codeberg.org/snonux/smartdict/internal/logging"
	"codeberg.org/snonux/smartdict/internal/lookup"
	"codeberg.org/snonux/smartdict/internal/models"
	"codeberg.org/snonux/smartdict/internal/notes"
	"codeberg.org/snonux/smartdict/internal/render"
	"codeberg.org/snonux/smartdict/internal/translation"
)

// Processor handles the main lookup logic
type Processor struct {
	flags    *cli.Flags
	settings cli.Settings
	out      io.Writer
	color    bool
	log      *slog.Logger
}

// NewProcessor creates a new processor writing results to out
func NewProcessor(flags *cli.Flags, settings cli.Settings, out io.Writer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogger(settings.LogLevel, settings.LogFormat, nil)
	}

	color := false
	if f, ok := out.(*os.File); ok && !flags.NoColor {
		color = render.ColorEnabled(f)
	}

	return &Processor{
		flags:    flags,
		settings: settings,
		out:      out,
		color:    color,
		log:      logger,
	}
}

// NewDictionary creates the dictionary client from the settings
func (p *Processor) NewDictionary() *dictionary.Client {
	return dictionary.NewClient(dictionary.Config{
		DictionaryURL: p.settings.DictionaryURL,
		DictionaryKey: p.settings.DictionaryKey,
		ThesaurusURL:  p.settings.ThesaurusURL,
		ThesaurusKey:  p.settings.ThesaurusKey,
		Timeout:       p.settings.DictionaryTimeout,
	}, p.log)
}

// NewTranslator creates the configured translation backend behind a
// circuit breaker
func (p *Processor) NewTranslator(ctx context.Context) (*translation.Safe, error) {
	for _, code := range []string{p.settings.SourceLang, p.settings.TargetLang} {
		if err := translation.ValidateLanguage(code); err != nil {
			return nil, err
		}
	}

	backend, err := translation.New(ctx, translation.Config{
		Provider:    p.settings.TranslationProvider,
		OpenAIKey:   p.settings.OpenAIKey,
		OpenAIModel: p.settings.OpenAIModel,
		GeminiKey:   p.settings.GeminiKey,
		GeminiModel: p.settings.GeminiModel,
		GoogleURL:   p.settings.GoogleURL,
	})
	if err != nil {
		return nil, err
	}
	return translation.NewSafe(backend, translation.DefaultSafeConfig(), p.log), nil
}

// sessionOptions returns the lookup options. Terminal output is printed
// once a lookup completes, so the reveal animation is skipped there.
func (p *Processor) sessionOptions(animate bool) lookup.Options {
	opts := lookup.DefaultOptions()
	opts.Source = p.settings.SourceLang
	opts.Target = p.settings.TargetLang
	opts.TranslateDelay = p.settings.TranslateDelay
	opts.RevealDelay = 0
	if animate {
		opts.RevealDelay = p.settings.RevealDelay
	}
	opts.CacheEnabled = p.settings.CacheEnabled && !p.flags.NoCache
	return opts
}

// terminal is a lookup session rendering into memory for printing
type terminal struct {
	session *lookup.Session
	buf     *render.Memory
	ui      *lookup.SerialDispatcher
}

func (p *Processor) newTerminal(ctx context.Context) (*terminal, error) {
	translator, err := p.NewTranslator(ctx)
	if err != nil {
		return nil, err
	}

	buf := render.NewMemory()
	ui := lookup.NewSerialDispatcher()
	session := lookup.NewSession(p.NewDictionary(), translator, buf, ui, p.sessionOptions(false), p.log)
	return &terminal{session: session, buf: buf, ui: ui}, nil
}

func (t *terminal) Close() {
	t.session.Close()
	t.ui.Close()
}

// runLookup runs one query to completion and prints the result
func (p *Processor) runLookup(t *terminal, mode lookup.Mode, word string) (*lookup.Task, error) {
	task, err := t.session.Lookup(mode, word)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", word, err)
	}
	task.Wait()

	if err := render.WriteANSI(p.out, t.buf.Segments(), p.color); err != nil {
		return task, fmt.Errorf("failed to write result: %w", err)
	}
	p.log.Debug("lookup finished",
		"query", task.Query,
		"mode", task.Mode.String(),
		"status", task.Status().String(),
		"cached", task.Cached(),
		"duration", task.Duration())
	return task, nil
}

// ProcessSingleWord looks up a word or phrase given on the command line
func (p *Processor) ProcessSingleWord(word string) error {
	mode, err := lookup.ParseMode(p.flags.Mode)
	if err != nil {
		return err
	}

	t, err := p.newTerminal(context.Background())
	if err != nil {
		return err
	}
	defer t.Close()

	task, err := p.runLookup(t, mode, word)
	if err != nil {
		return err
	}
	if task.Status() == lookup.StatusFailed {
		return fmt.Errorf("lookup of %q failed: %w", task.Query, task.Err())
	}
	return nil
}

// ProcessBatch looks up every query of the batch file
func (p *Processor) ProcessBatch() error {
	defaultMode, err := lookup.ParseMode(p.flags.Mode)
	if err != nil {
		return err
	}

	queries, err := batch.ReadBatchFile(p.flags.BatchFile, defaultMode)
	if err != nil {
		return err
	}

	t, err := p.newTerminal(context.Background())
	if err != nil {
		return err
	}
	defer t.Close()

	// Track statistics
	processedCount := 0
	cachedCount := 0
	errorCount := 0

	for i, q := range queries {
		fmt.Fprintf(p.out, "\n=== %d/%d: %s (%s) ===\n", i+1, len(queries), q.Word, q.Mode)

		task, err := p.runLookup(t, q.Mode, q.Word)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error processing '%s': %v\n", q.Word, err)
			errorCount++
		case task.Status() == lookup.StatusFailed:
			errorCount++
		case task.Cached():
			cachedCount++
		default:
			processedCount++
		}
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Lookup Summary ===\n")
	fmt.Fprintf(p.out, "Total queries: %d\n", len(queries))
	fmt.Fprintf(p.out, "Looked up: %d\n", processedCount)
	fmt.Fprintf(p.out, "From cache: %d\n", cachedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "============================\n")

	return nil
}

// ListModels prints the OpenAI chat models usable for translation
func (p *Processor) ListModels(ctx context.Context) error {
	return models.NewLister(p.settings.OpenAIKey).ListAvailableModels(ctx, p.out)
}

// ArchiveNotes moves the notes directory aside
func (p *Processor) ArchiveNotes() error {
	path, err := archive.ArchiveNotes(p.settings.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to archive notes: %w", err)
	}
	fmt.Fprintf(p.out, "Notes directory archived to: %s\n", path)
	return nil
}

// RunGUIMode launches the desktop application
func (p *Processor) RunGUIMode() error {
	// Log records go to stderr and to the log tab of the window
	sink := gui.NewLogSink(1000)
	p.log = logging.NewLogger(p.settings.LogLevel, p.settings.LogFormat, io.MultiWriter(os.Stderr, sink))

	ctx := context.Background()
	translator, err := p.NewTranslator(ctx)
	if err != nil {
		return err
	}

	cards, err := notes.Open(p.settings.NotesBackend, p.settings.NotesDir, notes.KindFlashcards)
	if err != nil {
		return err
	}
	defer cards.Close()

	essays, err := notes.Open(p.settings.NotesBackend, p.settings.NotesDir, notes.KindEssays)
	if err != nil {
		return err
	}
	defer essays.Close()

	app := gui.New(&gui.Config{
		Options: p.sessionOptions(true),
		Title:   fmt.Sprintf("%s → %s", strings.ToUpper(p.settings.SourceLang), strings.ToUpper(p.settings.TargetLang)),
	}, gui.Deps{
		Dictionary: p.NewDictionary(),
		Translator: translator,
		Cards:      cards,
		Essays:     essays,
		Logger:     p.log,
		LogSink:    sink,
	})
	app.Run()
	return nil
}
