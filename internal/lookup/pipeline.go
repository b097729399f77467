package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/snonux/smartdict/internal/dictionary"
	"codeberg.org/snonux/smartdict/internal/render"
)

// binding pairs a placeholder marker with the text to translate into it
type binding struct {
	marker string
	source string
}

func (s *Session) run(task *Task) {
	defer s.wg.Done()
	defer task.finish()
	defer s.recoverUnit(task)

	if s.replayCached(task) {
		return
	}

	if !s.step(task, func() {
		s.buf.Clear()
		s.buf.Append(headerLine(task.Mode, task.Query), render.TagNone)
	}) {
		return
	}

	task.setStatus(StatusFetching)
	result, err := s.fetch(task.ctx, task.Mode, task.Query)
	if err != nil {
		if task.cancelled() {
			return
		}
		s.log.Warn("lookup failed", "task", task.ID, "query", task.Query, "error", err)
		s.renderError(task, err)
		return
	}

	task.setStatus(StatusRendering)
	var (
		bindings []binding
		produced bool
	)
	if !s.step(task, func() {
		bindings, produced = s.renderResult(task.Mode, result)
	}) {
		return
	}

	if len(bindings) > 0 {
		task.setStatus(StatusTranslating)
		done := make(chan struct{})
		go func() {
			defer close(done)
			defer s.recoverUnit(task)
			s.translateAndReveal(task, bindings)
		}()
		<-done
	}

	if produced && task.Status() != StatusFailed {
		s.storeResult(task)
	}
}

// step runs fn on the UI goroutine unless the task was cancelled. It
// reports whether fn ran.
func (s *Session) step(task *Task, fn func()) bool {
	if task.cancelled() {
		return false
	}
	ran := false
	s.ui.DoAndWait(func() {
		if task.cancelled() {
			return
		}
		fn()
		ran = true
	})
	return ran
}

// recoverUnit turns a panic in a work unit into an error line
func (s *Session) recoverUnit(task *Task) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("internal error: %v", r)
	s.log.Error("lookup panicked", "task", task.ID, "query", task.Query, "panic", r)
	s.renderError(task, err)
}

func (s *Session) renderError(task *Task, err error) {
	task.fail(err)
	defer func() {
		// The dispatcher itself may be what panicked
		if r := recover(); r != nil {
			s.log.Error("cannot render error", "task", task.ID, "panic", r)
		}
	}()
	s.step(task, func() {
		s.buf.Append(errorLine(err), render.TagError)
	})
}

func (s *Session) fetch(ctx context.Context, mode Mode, query string) (*dictionary.Result, error) {
	if mode == ModeSynonyms {
		return s.dict.Thesaurus(ctx, query)
	}
	return s.dict.Define(ctx, query)
}

// renderResult paints a classified result and returns the placeholder
// bindings in insertion order. produced is true when entries were shown.
func (s *Session) renderResult(mode Mode, result *dictionary.Result) (bindings []binding, produced bool) {
	switch result.Kind {
	case dictionary.KindSuggestions:
		s.buf.Append(msgSuggestionHeader, render.TagNone)
		for _, sug := range result.Suggestions {
			s.buf.Append(suggestionLine(sug), render.TagNone)
		}
		return nil, false
	case dictionary.KindEntries:
		if len(result.Entries) > 0 {
			break
		}
		fallthrough
	default:
		s.buf.Append(notFoundLine(mode), render.TagNone)
		return nil, false
	}

	switch mode {
	case ModeSynonyms:
		s.renderThesaurus(result.Entries)
		return nil, true
	case ModePhrasal:
		phrases := dictionary.FilterPhrasal(result.Entries)
		if len(phrases) == 0 {
			s.buf.Append(msgNoPhrasalVerb, render.TagNone)
			return nil, false
		}
		for _, e := range phrases {
			s.buf.Append(e.ID+"\n", render.TagHeadword)
			bindings = s.renderDefinitions(e.ShortDefs, bindings)
		}
		return bindings, true
	default:
		for _, e := range result.Entries {
			if e.Headword != "" {
				s.buf.Append(fmt.Sprintf("%s (%s)\n", e.Headword, e.Label), render.TagHeadword)
			}
			bindings = s.renderDefinitions(e.ShortDefs, bindings)
		}
		return bindings, true
	}
}

func (s *Session) renderDefinitions(defs []string, bindings []binding) []binding {
	for _, d := range defs {
		s.buf.Append(definitionLine(d), render.TagNone)
		s.buf.Append(placeholderLine(), render.TagTranslation)
		bindings = append(bindings, binding{marker: Marker, source: d})
	}
	s.buf.Append("\n", render.TagNone)
	return bindings
}

func (s *Session) renderThesaurus(entries []dictionary.Entry) {
	for _, e := range entries {
		if e.Headword != "" {
			s.buf.Append(e.Headword+"\n", render.TagHeadword)
		}
		if len(e.ShortDefs) > 0 {
			s.buf.Append("→ "+e.ShortDefs[0]+"\n\n", render.TagNone)
		}
		if len(e.Synonyms) > 0 {
			s.buf.Append(msgSynonyms, render.TagSynonym)
			s.buf.Append(strings.Join(e.Synonyms[0], ", ")+"\n\n", render.TagNone)
		}
		if len(e.Antonyms) > 0 {
			s.buf.Append(msgAntonyms, render.TagAntonym)
			s.buf.Append(strings.Join(e.Antonyms[0], ", ")+"\n\n", render.TagNone)
		}
	}
}

// translateAndReveal translates the bindings one at a time and types each
// translation into the place of its marker
func (s *Session) translateAndReveal(task *Task, bindings []binding) {
	for i, b := range bindings {
		if i > 0 && !sleep(task.ctx, s.opts.TranslateDelay) {
			return
		}
		if task.cancelled() {
			return
		}

		translated := s.translator.Translate(task.ctx, b.source, s.opts.Source, s.opts.Target)
		if task.cancelled() {
			return
		}

		pos := -1
		if !s.step(task, func() {
			pos = s.buf.FindFirst(b.marker)
			if pos >= 0 {
				s.buf.Delete(pos, utf8.RuneCountInString(b.marker))
			}
		}) {
			return
		}
		if pos < 0 {
			s.log.Debug("placeholder gone, skipping", "task", task.ID)
			continue
		}

		if !s.reveal(task, pos, translated) {
			return
		}
	}
}

// reveal inserts text at pos one character per UI step
func (s *Session) reveal(task *Task, pos int, text string) bool {
	for i, r := range []rune(text) {
		if i > 0 && !sleep(task.ctx, s.opts.RevealDelay) {
			return false
		}
		at := pos + i
		ch := string(r)
		if !s.step(task, func() {
			s.buf.Insert(at, ch, render.TagTranslation)
		}) {
			return false
		}
	}
	return true
}

func (s *Session) replayCached(task *Task) bool {
	if !s.opts.CacheEnabled {
		return false
	}
	segments, ok := s.cache.Get(task.Mode, task.Query)
	if !ok {
		return false
	}

	if s.step(task, func() {
		render.Replay(s.buf, segments)
	}) {
		task.mu.Lock()
		task.cached = true
		task.mu.Unlock()
		s.log.Debug("lookup replayed from cache", "task", task.ID, "query", task.Query)
	}
	return true
}

func (s *Session) storeResult(task *Task) {
	if !s.opts.CacheEnabled {
		return
	}
	snap, ok := s.buf.(render.Snapshotter)
	if !ok {
		return
	}

	var segments []render.Segment
	if !s.step(task, func() {
		segments = snap.Segments()
	}) {
		return
	}
	s.cache.Add(task.Mode, task.Query, segments)
}

// sleep waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
