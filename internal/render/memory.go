package render

import (
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// Memory is a Buffer held entirely in memory as a list of segments.
// Adjacent segments with the same tag are merged after every edit.
type Memory struct {
	mu   sync.RWMutex
	segs []Segment
}

// NewMemory creates an empty in-memory buffer
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Buffer
func (m *Memory) Append(text string, tag Tag) {
	if text == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := len(m.segs); n > 0 && m.segs[n-1].Tag == tag {
		m.segs[n-1].Text += text
		return
	}
	m.segs = append(m.segs, Segment{Text: text, Tag: tag})
}

// Clear implements Buffer
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segs = nil
}

// FindFirst implements Buffer
func (m *Memory) FindFirst(substr string) int {
	if substr == "" {
		return -1
	}
	text := m.Text()
	idx := strings.Index(text, substr)
	if idx < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:idx])
}

// Delete implements Buffer
func (m *Memory) Delete(pos, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Only the part of [pos, pos+length) inside the buffer is removed
	total := m.lenLocked()
	from := clamp(pos, 0, total)
	end := clamp(pos+length, from, total)
	if end <= from {
		return
	}

	start := m.splitLocked(from)
	stop := m.splitLocked(end)
	m.segs = slices.Delete(m.segs, start, stop)
	m.mergeLocked()
}

// Insert implements Buffer
func (m *Memory) Insert(pos int, text string, tag Tag) {
	if text == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	pos = clamp(pos, 0, m.lenLocked())
	i := m.splitLocked(pos)
	m.segs = slices.Insert(m.segs, i, Segment{Text: text, Tag: tag})
	m.mergeLocked()
}

// Text implements Buffer
func (m *Memory) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	for _, seg := range m.segs {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// Len returns the buffer length in characters
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lenLocked()
}

// Segments returns a copy of the styled content
func (m *Memory) Segments() []Segment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.segs)
}

func (m *Memory) lenLocked() int {
	n := 0
	for _, seg := range m.segs {
		n += utf8.RuneCountInString(seg.Text)
	}
	return n
}

// splitLocked makes sure a segment boundary exists at pos and returns the
// index of the first segment starting at or after pos.
func (m *Memory) splitLocked(pos int) int {
	off := 0
	for i, seg := range m.segs {
		if pos == off {
			return i
		}
		n := utf8.RuneCountInString(seg.Text)
		if pos < off+n {
			runes := []rune(seg.Text)
			cut := pos - off
			m.segs[i] = Segment{Text: string(runes[:cut]), Tag: seg.Tag}
			m.segs = slices.Insert(m.segs, i+1, Segment{Text: string(runes[cut:]), Tag: seg.Tag})
			return i + 1
		}
		off += n
	}
	return len(m.segs)
}

func (m *Memory) mergeLocked() {
	out := m.segs[:0]
	for _, seg := range m.segs {
		if seg.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Tag == seg.Tag {
			out[n-1].Text += seg.Text
			continue
		}
		out = append(out, seg)
	}
	m.segs = out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
