package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CustomMultiLineEntry is the essay editor. Escape leaves the field and
// Ctrl+S saves.
type CustomMultiLineEntry struct {
	widget.Entry
	onEscape func()
	onSave   func()
}

// NewCustomMultiLineEntry creates a new custom multi-line entry
func NewCustomMultiLineEntry() *CustomMultiLineEntry {
	entry := &CustomMultiLineEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomMultiLineEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut handles Ctrl+S and passes everything else on
func (e *CustomMultiLineEntry) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok && e.onSave != nil &&
		cs.KeyName == fyne.KeyS && cs.Modifier == fyne.KeyModifierShortcutDefault {
		e.onSave()
		return
	}
	e.Entry.TypedShortcut(s)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *CustomMultiLineEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnSave sets the callback for Ctrl+S
func (e *CustomMultiLineEntry) SetOnSave(f func()) {
	e.onSave = f
}

// CustomEntry is the lookup field. Escape clears the query.
type CustomEntry struct {
	widget.Entry
	onEscape func()
}

// NewCustomEntry creates a lookup field showing placeholder while empty
func NewCustomEntry(placeholder string) *CustomEntry {
	entry := &CustomEntry{}
	entry.PlaceHolder = placeholder
	entry.ExtendBaseWidget(entry)
	entry.onEscape = func() { entry.SetText("") }
	return entry
}

// TypedKey handles key events
func (e *CustomEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape replaces the Escape behaviour
func (e *CustomEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
