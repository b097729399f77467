package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/smartdict/internal"
	"codeberg.org/snonux/smartdict/internal/lookup"
	"codeberg.org/snonux/smartdict/internal/notes"
)

// SearchPlaceholder is the hint of the empty lookup field
const SearchPlaceholder = "Nhập từ cần tra..."

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	wordInput    *CustomEntry
	meaningBtn   *ttwidget.Button
	synonymsBtn  *ttwidget.Button
	phrasalBtn   *ttwidget.Button
	saveCardBtn  *ttwidget.Button
	cardsBtn     *ttwidget.Button
	essaysBtn    *ttwidget.Button
	helpBtn      *ttwidget.Button
	result       *RichBuffer
	resultScroll *container.Scroll
	statusLabel  *widget.Label
	logViewer    *LogViewer

	session *lookup.Session
	cards   notes.Store
	essays  notes.Store
	config  *Config
	log     *slog.Logger

	mu      sync.Mutex
	current *lookup.Task
}

// Config holds GUI application configuration
type Config struct {
	Options lookup.Options
	Title   string
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	opts := lookup.DefaultOptions()
	opts.Placeholder = SearchPlaceholder
	return &Config{
		Options: opts,
		Title:   "EN → VI",
	}
}

// Deps are the services the window works with
type Deps struct {
	Dictionary lookup.Dictionary
	Translator lookup.Translator
	Cards      notes.Store
	Essays     notes.Store
	Logger     *slog.Logger
	LogSink    *LogSink
}

// New creates a new GUI application
func New(config *Config, deps Deps) *Application {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Title == "" {
		config.Title = DefaultConfig().Title
	}
	if config.Options.Placeholder == "" {
		config.Options.Placeholder = SearchPlaceholder
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.LogSink == nil {
		deps.LogSink = NewLogSink(1000)
	}

	a := &Application{
		app:    app.NewWithID("org.codeberg.snonux.smartdict"),
		result: NewRichBuffer(),
		cards:  deps.Cards,
		essays: deps.Essays,
		config: config,
		log:    deps.Logger.With("component", "gui"),
	}

	// Every buffer mutation of a lookup runs on the Fyne UI goroutine
	a.session = lookup.NewSession(deps.Dictionary, deps.Translator, a.result,
		lookup.DispatcherFunc(fyne.DoAndWait), config.Options, deps.Logger)

	a.setupUI(deps.LogSink)
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI(sink *LogSink) {
	a.window = a.app.NewWindow(fmt.Sprintf("Smart Dictionary v%s - %s", internal.Version, a.config.Title))
	a.window.Resize(fyne.NewSize(700, 620))

	a.wordInput = NewCustomEntry(a.config.Options.Placeholder)
	a.wordInput.OnSubmitted = func(string) {
		a.onLookup(lookup.ModeMeaning)
	}

	// Tooltips are set after the tooltip layer is created
	a.meaningBtn = ttwidget.NewButton("🔍 Tra nghĩa", func() { a.onLookup(lookup.ModeMeaning) })
	a.meaningBtn.Importance = widget.HighImportance
	a.synonymsBtn = ttwidget.NewButton("🟢 Đồng / Trái nghĩa", func() { a.onLookup(lookup.ModeSynonyms) })
	a.phrasalBtn = ttwidget.NewButton("📘 Phrasal Verb", func() { a.onLookup(lookup.ModePhrasal) })

	a.saveCardBtn = ttwidget.NewButton("⭐ Lưu thẻ", a.onSaveCard)
	a.cardsBtn = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onShowCards)
	a.essaysBtn = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onShowEssays)
	a.helpBtn = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	title := widget.NewLabelWithStyle("Smart Minimal Dictionary", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	toolbar := container.NewHBox(
		a.meaningBtn,
		a.synonymsBtn,
		a.phrasalBtn,
		widget.NewSeparator(),
		a.saveCardBtn,
		a.cardsBtn,
		a.essaysBtn,
		widget.NewSeparator(),
		a.helpBtn,
	)

	a.resultScroll = container.NewScroll(a.result.Widget())
	a.resultScroll.SetMinSize(fyne.NewSize(0, 400))

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	lookupTab := container.NewBorder(
		container.NewVBox(
			title,
			a.wordInput,
			container.NewCenter(toolbar),
			widget.NewSeparator(),
		),
		a.statusLabel,
		nil, nil,
		a.resultScroll,
	)

	a.logViewer = NewLogViewer(sink)
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Tra cứu", theme.SearchIcon(), lookupTab),
		container.NewTabItemWithIcon("Log", theme.InfoIcon(), a.logViewer),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(tabs, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		// Close would wait for tasks blocked on the UI goroutine
		a.session.Cancel()
	})

	a.setupKeyboardShortcuts()
	a.window.Canvas().Focus(a.wordInput)
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// onLookup starts a lookup of the entered text in the given view
func (a *Application) onLookup(mode lookup.Mode) {
	task, err := a.session.Lookup(mode, a.wordInput.Text)
	if errors.Is(err, lookup.ErrEmptyQuery) {
		dialog.ShowInformation("Cảnh báo", "Vui lòng nhập từ hoặc cụm cần tra.", a.window)
		return
	}
	if err != nil {
		a.showError(err)
		return
	}

	a.mu.Lock()
	a.current = task
	a.mu.Unlock()

	a.resultScroll.ScrollToTop()
	a.updateStatus(fmt.Sprintf("%s: %s...", task.Mode, task.Query))
	go a.watchTask(task)
}

// watchTask reports the final status of task unless a newer one started
func (a *Application) watchTask(task *lookup.Task) {
	status := task.Wait()
	a.log.Debug("lookup done",
		"task", task.ID,
		"status", status.String(),
		"cached", task.Cached(),
		"duration", task.Duration())

	fyne.Do(func() {
		a.mu.Lock()
		latest := a.current == task
		a.mu.Unlock()
		if !latest {
			return
		}

		switch {
		case status == lookup.StatusFailed:
			a.updateStatus(fmt.Sprintf("%s: %s (%v)", status, task.Query, task.Err()))
		case task.Cached():
			a.updateStatus(fmt.Sprintf("%s: %s (cache)", status, task.Query))
		default:
			a.updateStatus(fmt.Sprintf("%s: %s", status, task.Query))
		}
	})
}

// onSaveCard stores the finished result under its query as a flashcard
func (a *Application) onSaveCard() {
	a.mu.Lock()
	task := a.current
	a.mu.Unlock()

	if task == nil || task.Status() != lookup.StatusCompleted {
		dialog.ShowInformation("Lưu thẻ", "Chưa có kết quả để lưu.", a.window)
		return
	}

	// Drop the header line, the card name already says it
	content := a.result.Text()
	if _, body, ok := strings.Cut(content, "\n"); ok {
		content = strings.TrimSpace(body)
	}

	if err := a.cards.Put(task.Query, content); err != nil {
		a.showError(fmt.Errorf("failed to save card: %w", err))
		return
	}
	a.log.Info("flashcard saved", "name", task.Query)
	a.updateStatus(fmt.Sprintf("⭐ Đã lưu thẻ: %s", task.Query))
}

// onShowCards lists the saved flashcards
func (a *Application) onShowCards() {
	names, err := a.cards.Names()
	if err != nil {
		a.showError(err)
		return
	}

	content := widget.NewLabel("")
	content.Wrapping = fyne.TextWrapWord
	selected := ""

	list := widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(names[id])
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		selected = names[id]
		text, _, err := a.cards.Get(selected)
		if err != nil {
			a.showError(err)
			return
		}
		content.SetText(text)
	}

	lookupBtn := widget.NewButtonWithIcon("Tra lại", theme.SearchIcon(), nil)
	deleteBtn := widget.NewButtonWithIcon("Xóa", theme.DeleteIcon(), nil)
	deleteBtn.Importance = widget.DangerImportance

	split := container.NewHSplit(list, container.NewScroll(content))
	split.SetOffset(0.35)
	body := container.NewBorder(nil, container.NewHBox(lookupBtn, deleteBtn), nil, nil, split)

	d := dialog.NewCustom("Thẻ đã lưu", "Đóng", body, a.window)
	d.Resize(fyne.NewSize(640, 440))

	lookupBtn.OnTapped = func() {
		if selected == "" {
			return
		}
		d.Hide()
		a.wordInput.SetText(selected)
		a.onLookup(lookup.ModeMeaning)
	}
	deleteBtn.OnTapped = func() {
		if selected == "" {
			return
		}
		if _, err := a.cards.Delete(selected); err != nil {
			a.showError(err)
			return
		}
		a.log.Info("flashcard deleted", "name", selected)
		if names, err = a.cards.Names(); err != nil {
			a.showError(err)
			return
		}
		selected = ""
		content.SetText("")
		list.UnselectAll()
		list.Refresh()
	}

	d.Show()
}

// onShowEssays opens the essay notes editor
func (a *Application) onShowEssays() {
	names, err := a.essays.Names()
	if err != nil {
		a.showError(err)
		return
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Tên bài viết...")
	editor := NewCustomMultiLineEntry()
	editor.SetPlaceHolder("Nội dung... (Ctrl+S để lưu)")

	list := widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(names[id])
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		text, _, err := a.essays.Get(names[id])
		if err != nil {
			a.showError(err)
			return
		}
		nameEntry.SetText(names[id])
		editor.SetText(text)
	}

	reload := func() {
		if names, err = a.essays.Names(); err != nil {
			a.showError(err)
			return
		}
		list.UnselectAll()
		list.Refresh()
	}

	save := func() {
		if err := a.essays.Put(nameEntry.Text, editor.Text); err != nil {
			if errors.Is(err, notes.ErrEmptyName) {
				dialog.ShowInformation("Cảnh báo", "Vui lòng nhập tên bài viết.", a.window)
				return
			}
			a.showError(err)
			return
		}
		a.log.Info("essay saved", "name", strings.TrimSpace(nameEntry.Text))
		reload()
	}
	editor.SetOnSave(save)
	editor.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	newBtn := widget.NewButtonWithIcon("Mới", theme.ContentAddIcon(), func() {
		list.UnselectAll()
		nameEntry.SetText("")
		editor.SetText("")
	})
	saveBtn := widget.NewButtonWithIcon("Lưu", theme.DocumentSaveIcon(), save)
	deleteBtn := widget.NewButtonWithIcon("Xóa", theme.DeleteIcon(), func() {
		removed, err := a.essays.Delete(nameEntry.Text)
		if err != nil {
			a.showError(err)
			return
		}
		if removed {
			a.log.Info("essay deleted", "name", strings.TrimSpace(nameEntry.Text))
		}
		nameEntry.SetText("")
		editor.SetText("")
		reload()
	})
	deleteBtn.Importance = widget.DangerImportance

	editorPane := container.NewBorder(nameEntry, container.NewHBox(newBtn, saveBtn, deleteBtn), nil, nil, editor)
	split := container.NewHSplit(list, editorPane)
	split.SetOffset(0.3)

	d := dialog.NewCustom("Ghi chú bài viết", "Đóng", split, a.window)
	d.Resize(fyne.NewSize(720, 500))
	d.Show()
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Tra cứu
**Enter** Tra nghĩa
**Esc** Xóa ô nhập
**m** Tra nghĩa
**s** Đồng / Trái nghĩa
**p** Phrasal Verb

## Ghi chú
**f** Lưu thẻ
**c** Thẻ đã lưu
**e** Ghi chú bài viết

## Khác
**i** Focus ô nhập
**h** Phím tắt
**q** Thoát

---
*Phím tắt hoạt động khi ô nhập không được chọn*`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 380))

	dialog.NewCustom("Phím tắt", "Đóng", scroll, a.window).Show()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	a.log.Error("gui action failed", "error", err)
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.meaningBtn.SetToolTip("Tra nghĩa (m)")
	a.synonymsBtn.SetToolTip("Đồng / Trái nghĩa (s)")
	a.phrasalBtn.SetToolTip("Phrasal Verb (p)")
	a.saveCardBtn.SetToolTip("Lưu thẻ (f)")
	a.cardsBtn.SetToolTip("Thẻ đã lưu (c)")
	a.essaysBtn.SetToolTip("Ghi chú bài viết (e)")
	a.helpBtn.SetToolTip("Phím tắt (h)")
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		// Let the character be typed when an input field is focused
		if a.window.Canvas().Focused() != nil {
			return
		}

		switch r {
		case 'm', 'M':
			a.onLookup(lookup.ModeMeaning)
		case 's', 'S':
			a.onLookup(lookup.ModeSynonyms)
		case 'p', 'P':
			a.onLookup(lookup.ModePhrasal)
		case 'f', 'F':
			a.onSaveCard()
		case 'c', 'C':
			a.onShowCards()
		case 'e', 'E':
			a.onShowEssays()
		case 'i', 'I':
			a.window.Canvas().Focus(a.wordInput)
		case 'h', 'H':
			a.onShowHotkeys()
		case 'q', 'Q':
			a.window.Close()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
		}
	})
}
