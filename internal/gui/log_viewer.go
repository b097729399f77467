package gui

import (
	"slices"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogSink is an io.Writer keeping the last log lines in memory. It is safe
// for concurrent use.
type LogSink struct {
	mu       sync.Mutex
	lines    []string
	partial  string
	max      int
	onChange func()
}

// NewLogSink creates a sink holding at most limit lines
func NewLogSink(limit int) *LogSink {
	if limit <= 0 {
		limit = 1000
	}
	return &LogSink{max: limit}
}

// Write implements io.Writer
func (s *LogSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	text := s.partial + string(p)
	parts := strings.Split(text, "\n")
	s.partial = parts[len(parts)-1]

	added := false
	for _, line := range parts[:len(parts)-1] {
		if line == "" {
			continue
		}
		s.lines = append(s.lines, line)
		added = true
	}
	// Trim if too many lines (remove oldest from the front)
	if over := len(s.lines) - s.max; over > 0 {
		s.lines = slices.Delete(s.lines, 0, over)
	}
	onChange := s.onChange
	s.mu.Unlock()

	if added && onChange != nil {
		onChange()
	}
	return len(p), nil
}

// Lines returns the kept lines, oldest first
func (s *LogSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Clear drops all kept lines
func (s *LogSink) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.partial = ""
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// SetOnChange registers f to be called after lines were added or cleared.
// f runs on the writing goroutine.
func (s *LogSink) SetOnChange(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

// LogViewer is a widget that displays the lines of a LogSink
type LogViewer struct {
	widget.BaseWidget

	sink       *LogSink
	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
}

// NewLogViewer creates a new log viewer widget following sink
func NewLogViewer(sink *LogSink) *LogViewer {
	v := &LogViewer{sink: sink}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.Direction = container.ScrollBoth

	clearButton := widget.NewButton("Clear", sink.Clear)
	v.container = container.NewBorder(
		container.NewBorder(nil, nil, nil, clearButton, widget.NewLabel("Log messages (newest first):")),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	sink.SetOnChange(func() {
		fyne.Do(v.refresh)
	})

	v.ExtendBaseWidget(v)
	v.refresh()
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refresh() {
	lines := v.sink.Lines()
	slices.Reverse(lines)
	v.logEntry.SetText(strings.Join(lines, "\n"))

	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
