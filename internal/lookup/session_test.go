package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"codeberg.org/snonux/smartdict/internal/dictionary"
	"codeberg.org/snonux/smartdict/internal/render"
	"codeberg.org/snonux/smartdict/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

// recordingBuffer logs every mutation in the order the UI goroutine
// applied it
type recordingBuffer struct {
	*render.Memory
	ops []string
}

func newRecordingBuffer() *recordingBuffer {
	return &recordingBuffer{Memory: render.NewMemory()}
}

func (r *recordingBuffer) Append(text string, tag render.Tag) {
	r.ops = append(r.ops, "append:"+text)
	r.Memory.Append(text, tag)
}

func (r *recordingBuffer) Insert(pos int, text string, tag render.Tag) {
	r.ops = append(r.ops, "insert:"+text)
	r.Memory.Insert(pos, text, tag)
}

func (r *recordingBuffer) Clear() {
	r.ops = append(r.ops, "clear")
	r.Memory.Clear()
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.TranslateDelay = 0
	opts.RevealDelay = 0
	opts.Placeholder = "Nhập từ cần tra..."
	return opts
}

func newTestSession(t *testing.T, dict Dictionary, tr Translator, opts Options) (*Session, *recordingBuffer) {
	t.Helper()

	buf := newRecordingBuffer()
	ui := NewSerialDispatcher()
	s := NewSession(dict, tr, buf, ui, opts, newTestLogger())
	t.Cleanup(func() {
		s.Close()
		ui.Close()
	})
	return s, buf
}

func mustLookup(t *testing.T, s *Session, mode Mode, input string) *Task {
	t.Helper()

	task, err := s.Lookup(mode, input)
	if err != nil {
		t.Fatalf("Lookup(%v, %q) failed: %v", mode, input, err)
	}
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("lookup of %q did not finish", input)
	}
	return task
}

func runEntry() dictionary.Entry {
	return dictionary.Entry{
		ID:        "run:1",
		Headword:  "run",
		Label:     "verb",
		ShortDefs: []string{"to move fast", "to operate"},
	}
}

// stampingTranslator records when each Translate call starts
type stampingTranslator struct {
	*testutil.MockTranslator

	mu    sync.Mutex
	times []time.Time
}

func (s *stampingTranslator) Translate(ctx context.Context, text, source, target string) string {
	s.mu.Lock()
	s.times = append(s.times, time.Now())
	s.mu.Unlock()
	return s.MockTranslator.Translate(ctx, text, source, target)
}

func (s *stampingTranslator) stamps() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.times...)
}

// stampingBuffer records when each revealed character was inserted
type stampingBuffer struct {
	*recordingBuffer
	inserts []time.Time
}

func (b *stampingBuffer) Insert(pos int, text string, tag render.Tag) {
	b.inserts = append(b.inserts, time.Now())
	b.recordingBuffer.Insert(pos, text, tag)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "run", want: "run"},
		{input: "  give up \n", want: "give up"},
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "Nhập từ cần tra...", wantErr: true},
		{input: " Nhập từ cần tra... ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Validate(tt.input, "Nhập từ cần tra...")
		if tt.wantErr {
			if !errors.Is(err, ErrEmptyQuery) {
				t.Errorf("Validate(%q) error = %v, want ErrEmptyQuery", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Validate(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestLookup_RejectsEmptyInput(t *testing.T) {
	dict := testutil.NewMockDictionary()
	s, buf := newTestSession(t, dict, testutil.NewMockTranslator(nil), testOptions())

	for _, input := range []string{"", "  ", "Nhập từ cần tra..."} {
		task, err := s.Lookup(ModeMeaning, input)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Lookup(%q) error = %v, want ErrEmptyQuery", input, err)
		}
		if task != nil {
			t.Errorf("Lookup(%q) returned a task", input)
		}
	}

	s.Wait()
	if dict.CallCount() != 0 {
		t.Errorf("dictionary called %d times", dict.CallCount())
	}
	if len(buf.ops) != 0 {
		t.Errorf("buffer was touched: %v", buf.ops)
	}
}

func TestLookup_NotFound(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeMeaning, "🔎 Tra cứu nghĩa của: xyzzy\n\n❌ Không tìm thấy kết quả.\n"},
		{ModeSynonyms, "🟢 Tra cứu từ đồng nghĩa / trái nghĩa của: xyzzy\n\n❌ Không tìm thấy dữ liệu.\n"},
		{ModePhrasal, "📘 Tra cứu phrasal verb: xyzzy\n\n❌ Không tìm thấy cụm này.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s, buf := newTestSession(t, testutil.NewMockDictionary(), testutil.NewMockTranslator(nil), testOptions())

			task := mustLookup(t, s, tt.mode, "xyzzy")
			if diff := cmp.Diff(tt.want, buf.Text()); diff != "" {
				t.Errorf("buffer mismatch (-want +got):\n%s", diff)
			}
			if got := task.Status(); got != StatusCompleted {
				t.Errorf("Status() = %v, want Completed", got)
			}
		})
	}
}

func TestLookup_Suggestions(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddSuggestions("runn", "run", "rung", "runny")
	tr := testutil.NewMockTranslator(nil)
	s, buf := newTestSession(t, dict, tr, testOptions())

	mustLookup(t, s, ModeMeaning, "runn")

	want := []string{
		"clear",
		"append:🔎 Tra cứu nghĩa của: runn\n\n",
		"append:❌ Không tìm thấy. Gợi ý:\n",
		"append: - run\n",
		"append: - rung\n",
		"append: - runny\n",
	}
	if diff := cmp.Diff(want, buf.ops); diff != "" {
		t.Errorf("render sequence mismatch (-want +got):\n%s", diff)
	}
	if tr.CallCount() != 0 {
		t.Errorf("translator called %d times for suggestions", tr.CallCount())
	}
	if s.Cache().Len() != 0 {
		t.Errorf("suggestions were cached")
	}
}

func TestLookup_MeaningTranslatesEachDefinition(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	tr := testutil.NewMockTranslator(map[string]string{
		"to move fast": "di chuyển nhanh",
		"to operate":   "vận hành",
	})
	s, buf := newTestSession(t, dict, tr, testOptions())

	task := mustLookup(t, s, ModeMeaning, "run")

	want := "🔎 Tra cứu nghĩa của: run\n\n" +
		"run (verb)\n" +
		"   • to move fast\n" +
		"     → di chuyển nhanh\n" +
		"   • to operate\n" +
		"     → vận hành\n" +
		"\n"
	if diff := cmp.Diff(want, buf.Text()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	if got := task.Status(); got != StatusCompleted {
		t.Errorf("Status() = %v, want Completed", got)
	}

	// Every English line is painted before the first revealed character
	// and each character arrives in its own step.
	firstInsert, lastDefinition, inserts := -1, -1, 0
	for i, op := range buf.ops {
		switch {
		case strings.HasPrefix(op, "insert:"):
			inserts++
			if firstInsert < 0 {
				firstInsert = i
			}
		case strings.HasPrefix(op, "append:   • "):
			lastDefinition = i
		}
	}
	if firstInsert < lastDefinition {
		t.Errorf("translation revealed at step %d before definition at step %d", firstInsert, lastDefinition)
	}
	wantInserts := utf8.RuneCountInString("di chuyển nhanh") + utf8.RuneCountInString("vận hành")
	if inserts != wantInserts {
		t.Errorf("got %d reveal steps, want %d", inserts, wantInserts)
	}

	if diff := cmp.Diff([]string{
		"Translate: to move fast (en->vi)",
		"Translate: to operate (en->vi)",
	}, tr.Calls); diff != "" {
		t.Errorf("translation calls mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_TranslationsAreThrottled(t *testing.T) {
	const delay = 50 * time.Millisecond

	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", dictionary.Entry{
		ID:        "run:1",
		Headword:  "run",
		Label:     "verb",
		ShortDefs: []string{"to move fast", "to operate", "to flow"},
	})
	tr := &stampingTranslator{MockTranslator: testutil.NewMockTranslator(nil)}
	opts := testOptions()
	opts.TranslateDelay = delay
	s, _ := newTestSession(t, dict, tr, opts)

	mustLookup(t, s, ModeMeaning, "run")

	stamps := tr.stamps()
	if len(stamps) != 3 {
		t.Fatalf("got %d translation calls, want 3", len(stamps))
	}
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < delay {
			t.Errorf("call %d started %v after call %d, want at least %v", i, gap, i-1, delay)
		}
	}
}

func TestLookup_RevealIsPaced(t *testing.T) {
	const delay = 20 * time.Millisecond

	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", dictionary.Entry{
		ID:        "run:1",
		Headword:  "run",
		Label:     "verb",
		ShortDefs: []string{"to move fast"},
	})
	tr := testutil.NewMockTranslator(map[string]string{"to move fast": "chạy"})
	opts := testOptions()
	opts.RevealDelay = delay

	buf := &stampingBuffer{recordingBuffer: newRecordingBuffer()}
	ui := NewSerialDispatcher()
	s := NewSession(dict, tr, buf, ui, opts, newTestLogger())
	t.Cleanup(func() {
		s.Close()
		ui.Close()
	})

	mustLookup(t, s, ModeMeaning, "run")

	if !strings.Contains(buf.Text(), "     → chạy\n") {
		t.Fatalf("translation not revealed:\n%s", buf.Text())
	}
	if len(buf.inserts) != utf8.RuneCountInString("chạy") {
		t.Fatalf("got %d reveal steps, want %d", len(buf.inserts), utf8.RuneCountInString("chạy"))
	}
	for i := 1; i < len(buf.inserts); i++ {
		if gap := buf.inserts[i].Sub(buf.inserts[i-1]); gap < delay {
			t.Errorf("character %d revealed %v after the previous one, want at least %v", i, gap, delay)
		}
	}
}

func TestLookup_TranslationStyled(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", dictionary.Entry{ID: "run", Headword: "run", Label: "verb", ShortDefs: []string{"to move fast"}})
	s, buf := newTestSession(t, dict, testutil.NewMockTranslator(map[string]string{"to move fast": "chạy"}), testOptions())

	mustLookup(t, s, ModeMeaning, "run")

	want := []render.Segment{
		{Text: "🔎 Tra cứu nghĩa của: run\n\n"},
		{Text: "run (verb)\n", Tag: render.TagHeadword},
		{Text: "   • to move fast\n"},
		{Text: "     → chạy\n", Tag: render.TagTranslation},
		{Text: "\n"},
	}
	if diff := cmp.Diff(want, buf.Segments()); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_PhrasalFiltersPhrases(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("give",
		dictionary.Entry{ID: "give up", Headword: "give up", ShortDefs: []string{"to stop trying"}},
		dictionary.Entry{ID: "give", Headword: "give", Label: "verb", ShortDefs: []string{"to hand over"}},
		dictionary.Entry{ID: "take off:1", Headword: "take off", ShortDefs: []string{"to leave the ground"}},
	)
	s, buf := newTestSession(t, dict, testutil.NewMockTranslator(nil), testOptions())

	mustLookup(t, s, ModePhrasal, "give")

	want := "📘 Tra cứu phrasal verb: give\n\n" +
		"give up\n" +
		"   • to stop trying\n" +
		"     → to stop trying\n" +
		"\n" +
		"take off:1\n" +
		"   • to leave the ground\n" +
		"     → to leave the ground\n" +
		"\n"
	if diff := cmp.Diff(want, buf.Text()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_PhrasalWithoutPhrases(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	tr := testutil.NewMockTranslator(nil)
	s, buf := newTestSession(t, dict, tr, testOptions())

	mustLookup(t, s, ModePhrasal, "run")

	want := "📘 Tra cứu phrasal verb: run\n\nKhông tìm thấy phrasal verb.\n"
	if diff := cmp.Diff(want, buf.Text()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	if tr.CallCount() != 0 {
		t.Errorf("translator called %d times", tr.CallCount())
	}
}

func TestLookup_Synonyms(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("happy", dictionary.Entry{
		ID:        "happy",
		Headword:  "happy",
		Label:     "adjective",
		ShortDefs: []string{"feeling pleasure", "lucky"},
		Synonyms:  [][]string{{"glad", "joyful"}, {"fortunate"}},
		Antonyms:  [][]string{{"sad", "unhappy"}},
	})
	tr := testutil.NewMockTranslator(nil)
	s, buf := newTestSession(t, dict, tr, testOptions())

	mustLookup(t, s, ModeSynonyms, "happy")

	want := []render.Segment{
		{Text: "🟢 Tra cứu từ đồng nghĩa / trái nghĩa của: happy\n\n"},
		{Text: "happy\n", Tag: render.TagHeadword},
		{Text: "→ feeling pleasure\n\n"},
		{Text: "🔹 Từ đồng nghĩa:\n", Tag: render.TagSynonym},
		{Text: "glad, joyful\n\n"},
		{Text: "🔸 Từ trái nghĩa:\n", Tag: render.TagAntonym},
		{Text: "sad, unhappy\n\n"},
	}
	if diff := cmp.Diff(want, buf.Segments()); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	if tr.CallCount() != 0 {
		t.Errorf("translator called %d times", tr.CallCount())
	}
	if dict.Calls[0] != "Thesaurus: happy" {
		t.Errorf("first call = %q, want thesaurus lookup", dict.Calls[0])
	}
}

func TestLookup_ErrorRendersOneLine(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.Errors["run"] = errors.New("lookup failed: status 503")
	s, buf := newTestSession(t, dict, testutil.NewMockTranslator(nil), testOptions())

	task := mustLookup(t, s, ModeMeaning, "run")

	want := "🔎 Tra cứu nghĩa của: run\n\n⚠️ Lỗi: lookup failed: status 503\n"
	if diff := cmp.Diff(want, buf.Text()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	if task.Status() != StatusFailed || task.Err() == nil {
		t.Errorf("Status() = %v, Err() = %v; want Failed with error", task.Status(), task.Err())
	}
}

type panickingTranslator struct{}

func (panickingTranslator) Translate(ctx context.Context, text, source, target string) string {
	panic("translator exploded")
}

func TestLookup_PanicRendersErrorLine(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	s, buf := newTestSession(t, dict, panickingTranslator{}, testOptions())

	task := mustLookup(t, s, ModeMeaning, "run")

	if !strings.HasSuffix(buf.Text(), "⚠️ Lỗi: internal error: translator exploded\n") {
		t.Errorf("buffer does not end with error line:\n%s", buf.Text())
	}
	if task.Status() != StatusFailed {
		t.Errorf("Status() = %v, want Failed", task.Status())
	}
	if s.Cache().Len() != 0 {
		t.Errorf("failed result was cached")
	}
}

// gateTranslator blocks on one source text until released or cancelled
type gateTranslator struct {
	gated   string
	entered chan struct{}
	once    sync.Once
	inner   *testutil.MockTranslator
}

func (g *gateTranslator) Translate(ctx context.Context, text, source, target string) string {
	if text == g.gated {
		g.once.Do(func() { close(g.entered) })
		<-ctx.Done()
		return text
	}
	return g.inner.Translate(ctx, text, source, target)
}

func TestLookup_NewLookupCancelsPrevious(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("alpha", dictionary.Entry{ID: "alpha", Headword: "alpha", Label: "noun", ShortDefs: []string{"first def", "more"}})
	dict.AddEntries("beta", dictionary.Entry{ID: "beta", Headword: "beta", Label: "noun", ShortDefs: []string{"second def"}})
	tr := &gateTranslator{
		gated:   "first def",
		entered: make(chan struct{}),
		inner:   testutil.NewMockTranslator(map[string]string{"second def": "thứ hai"}),
	}
	s, buf := newTestSession(t, dict, tr, testOptions())

	first, err := s.Lookup(ModeMeaning, "alpha")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	select {
	case <-tr.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first lookup never started translating")
	}
	if got := first.Status(); got != StatusTranslating {
		t.Errorf("first Status() = %v, want Translating", got)
	}

	second := mustLookup(t, s, ModeMeaning, "beta")
	if got := first.Wait(); got != StatusCancelled {
		t.Errorf("first Wait() = %v, want Cancelled", got)
	}
	if got := second.Status(); got != StatusCompleted {
		t.Errorf("second Status() = %v, want Completed", got)
	}
	if s.Current() != second {
		t.Error("Current() is not the second task")
	}

	want := "🔎 Tra cứu nghĩa của: beta\n\n" +
		"beta (noun)\n" +
		"   • second def\n" +
		"     → thứ hai\n" +
		"\n"
	if diff := cmp.Diff(want, buf.Text()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Cache().Get(ModeMeaning, "alpha"); ok {
		t.Error("cancelled lookup was cached")
	}
}

func TestLookup_CacheReplaysWithoutNetwork(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	tr := testutil.NewMockTranslator(map[string]string{"to move fast": "chạy nhanh", "to operate": "vận hành"})
	s, buf := newTestSession(t, dict, tr, testOptions())

	first := mustLookup(t, s, ModeMeaning, "run")
	firstText := buf.Text()
	firstSegments := buf.Segments()

	mustLookup(t, s, ModeMeaning, "something else")
	second := mustLookup(t, s, ModeMeaning, "run")

	if first.Cached() || !second.Cached() {
		t.Errorf("Cached() = %v, %v; want false, true", first.Cached(), second.Cached())
	}
	if diff := cmp.Diff(firstText, buf.Text()); diff != "" {
		t.Errorf("replayed text mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(firstSegments, buf.Segments()); diff != "" {
		t.Errorf("replayed segments mismatch (-want +got):\n%s", diff)
	}
	if got := dict.CallCount(); got != 2 {
		t.Errorf("dictionary called %d times, want 2", got)
	}
	if got := tr.CallCount(); got != 2 {
		t.Errorf("translator called %d times, want 2", got)
	}

	// The cache is keyed per view
	mustLookup(t, s, ModePhrasal, "run")
	if got := dict.CallCount(); got != 3 {
		t.Errorf("dictionary called %d times after phrasal lookup, want 3", got)
	}
}

func TestLookup_CacheDisabled(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	opts := testOptions()
	opts.CacheEnabled = false
	s, _ := newTestSession(t, dict, testutil.NewMockTranslator(nil), opts)

	mustLookup(t, s, ModeMeaning, "run")
	task := mustLookup(t, s, ModeMeaning, "run")

	if task.Cached() {
		t.Error("Cached() = true with cache disabled")
	}
	if got := dict.CallCount(); got != 2 {
		t.Errorf("dictionary called %d times, want 2", got)
	}
}

func TestLookup_MissingMarkerIsSkipped(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.AddEntries("run", runEntry())
	buf := newRecordingBuffer()
	ui := NewSerialDispatcher()
	defer ui.Close()

	// Remove the placeholders as soon as they are painted
	wiping := DispatcherFunc(func(fn func()) {
		ui.DoAndWait(func() {
			fn()
			for {
				pos := buf.FindFirst(Marker)
				if pos < 0 {
					break
				}
				buf.Delete(pos, utf8.RuneCountInString(Marker))
			}
		})
	})
	tr := testutil.NewMockTranslator(map[string]string{"to move fast": "chạy"})
	s := NewSession(dict, tr, buf, wiping, testOptions(), newTestLogger())
	defer s.Close()

	task := mustLookup(t, s, ModeMeaning, "run")

	if task.Status() != StatusCompleted {
		t.Errorf("Status() = %v, want Completed", task.Status())
	}
	if strings.Contains(buf.Text(), "chạy") {
		t.Errorf("translation revealed without a placeholder:\n%s", buf.Text())
	}
}

func TestSession_CloseRejectsLookups(t *testing.T) {
	s, _ := newTestSession(t, testutil.NewMockDictionary(), testutil.NewMockTranslator(nil), testOptions())
	s.Close()

	if _, err := s.Lookup(ModeMeaning, "run"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Lookup after Close error = %v, want ErrSessionClosed", err)
	}
}

func TestSession_CancelStopsRunningTask(t *testing.T) {
	dict := testutil.NewMockDictionary()
	dict.Block = make(chan struct{})
	s, _ := newTestSession(t, dict, testutil.NewMockTranslator(nil), testOptions())

	task, err := s.Lookup(ModeMeaning, "run")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	s.Cancel()

	if got := task.Wait(); got != StatusCancelled {
		t.Errorf("Wait() = %v, want Cancelled", got)
	}
	if _, err := s.Lookup(ModeMeaning, "run"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Lookup after Cancel error = %v, want ErrSessionClosed", err)
	}
}
