package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/smartdict/internal/render"
)

// RichBuffer is a render.Buffer painting into a RichText widget. Like the
// widget it must only be used from the Fyne UI goroutine.
type RichBuffer struct {
	mem  *render.Memory
	text *widget.RichText
}

// NewRichBuffer creates an empty buffer and its widget
func NewRichBuffer() *RichBuffer {
	text := widget.NewRichText()
	text.Wrapping = fyne.TextWrapWord
	return &RichBuffer{
		mem:  render.NewMemory(),
		text: text,
	}
}

// Widget returns the widget showing the buffer
func (b *RichBuffer) Widget() *widget.RichText {
	return b.text
}

func (b *RichBuffer) Append(text string, tag render.Tag) {
	b.mem.Append(text, tag)
	b.refresh()
}

func (b *RichBuffer) Clear() {
	b.mem.Clear()
	b.refresh()
}

func (b *RichBuffer) FindFirst(substr string) int {
	return b.mem.FindFirst(substr)
}

func (b *RichBuffer) Delete(pos, length int) {
	b.mem.Delete(pos, length)
	b.refresh()
}

func (b *RichBuffer) Insert(pos int, text string, tag render.Tag) {
	b.mem.Insert(pos, text, tag)
	b.refresh()
}

func (b *RichBuffer) Text() string {
	return b.mem.Text()
}

// Segments returns the styled content for the result cache
func (b *RichBuffer) Segments() []render.Segment {
	return b.mem.Segments()
}

func (b *RichBuffer) refresh() {
	b.text.Segments = richSegments(b.mem.Segments())
	b.text.Refresh()
}

// richSegments converts buffer segments to RichText segments. A line ends
// with a non-inline segment, everything else flows inline.
func richSegments(segments []render.Segment) []widget.RichTextSegment {
	var out []widget.RichTextSegment
	for _, seg := range segments {
		lines := strings.Split(seg.Text, "\n")
		for i, line := range lines {
			last := i == len(lines)-1
			if last && line == "" {
				continue
			}
			style := tagStyle(seg.Tag)
			style.Inline = last
			out = append(out, &widget.TextSegment{Text: line, Style: style})
		}
	}
	return out
}

func tagStyle(tag render.Tag) widget.RichTextStyle {
	style := widget.RichTextStyleInline
	style.ColorName = theme.ColorNameForeground
	switch tag {
	case render.TagHeadword:
		style.ColorName = theme.ColorNamePrimary
		style.TextStyle = fyne.TextStyle{Bold: true}
		style.SizeName = theme.SizeNameSubHeadingText
	case render.TagTranslation:
		style.ColorName = theme.ColorNameSuccess
	case render.TagSynonym:
		style.ColorName = theme.ColorNamePrimary
		style.TextStyle = fyne.TextStyle{Bold: true}
	case render.TagAntonym:
		style.ColorName = theme.ColorNameError
		style.TextStyle = fyne.TextStyle{Bold: true}
	case render.TagError:
		style.ColorName = theme.ColorNameWarning
	}
	return style
}
