package anki

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/smartdict/internal/notes"
)

// Card represents a single Anki flashcard
type Card struct {
	Front string // The looked up word or phrase
	Back  string // Definitions and translations
	Tags  string // Space separated Anki tags
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	Tags           string // Tags added to every card
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		Tags:           "smartdict",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	if card.Tags == "" {
		card.Tags = g.options.Tags
	}
	g.cards = append(g.cards, card)
}

// GetCards returns the collected cards
func (g *Generator) GetCards() []Card {
	return g.cards
}

// AddFromStore adds one card per saved flashcard, in name order
func (g *Generator) AddFromStore(store notes.Store) (int, error) {
	names, err := store.Names()
	if err != nil {
		return 0, fmt.Errorf("failed to list flashcards: %w", err)
	}

	added := 0
	for _, name := range names {
		back, ok, err := store.Get(name)
		if err != nil {
			return added, fmt.Errorf("failed to read flashcard %q: %w", name, err)
		}
		if !ok {
			continue
		}
		g.AddCard(Card{Front: name, Back: back})
		added++
	}
	return added, nil
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := g.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes the cards as CSV to w
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Front,
			formatBackField(card.Back),
			card.Tags,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatBackField turns a plain text result into the HTML Anki shows
func formatBackField(back string) string {
	lines := strings.Split(strings.TrimSpace(back), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

// Stats returns the number of cards and how many have no back side
func (g *Generator) Stats() (totalCards, empty int) {
	for _, card := range g.cards {
		if strings.TrimSpace(card.Back) == "" {
			empty++
		}
	}
	return len(g.cards), empty
}
