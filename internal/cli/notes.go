package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/smartdict/internal/anki"
	"codeberg.org/snonux/smartdict/internal/notes"
)

// newNotesCommand creates the list/show/set/delete subcommands for one
// notes collection
func newNotesCommand(name, short string, flags *Flags) *cobra.Command {
	kind, err := notes.ParseKind(name)
	if err != nil {
		panic(err)
	}

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}

	withStore := func(fn func(cmd *cobra.Command, store notes.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings()
			store, err := notes.Open(settings.NotesBackend, settings.NotesDir, kind)
			if err != nil {
				return err
			}
			defer store.Close()
			return fn(cmd, store, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all names",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, store notes.Store, args []string) error {
				names, err := store.Names()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Print one entry",
			Args:  cobra.MinimumNArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store notes.Store, args []string) error {
				name := strings.Join(args, " ")
				content, ok, err := store.Get(name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s %q not found", kind, name)
				}
				fmt.Fprintln(cmd.OutOrStdout(), content)
				return nil
			}),
		},
		newSetCommand(withStore),
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Remove an entry",
			Args:  cobra.MinimumNArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store notes.Store, args []string) error {
				name := strings.Join(args, " ")
				removed, err := store.Delete(name)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %q does not exist\n", kind, name)
				}
				return nil
			}),
		},
	)

	if kind == notes.KindFlashcards {
		cmd.AddCommand(newExportCommand(withStore))
	}

	return cmd
}

// newExportCommand writes the flashcards as an Anki import CSV
// newSetCommand stores an entry. The name is every argument joined, the same
// as show and delete, so multi-word names round-trip.
func newSetCommand(withStore func(func(*cobra.Command, notes.Store, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or replace an entry (text is read from stdin without --text)",
		Args:  cobra.MinimumNArgs(1),
		RunE: withStore(func(cmd *cobra.Command, store notes.Store, args []string) error {
			content := text
			if !cmd.Flags().Changed("text") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read text: %w", err)
				}
				content = strings.TrimRight(string(data), "\n")
			}
			return store.Put(strings.Join(args, " "), content)
		}),
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Entry text")
	return cmd
}

func newExportCommand(withStore func(func(*cobra.Command, notes.Store, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	opts := anki.DefaultGeneratorOptions()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export flashcards as an Anki import CSV",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, store notes.Store, args []string) error {
			gen := anki.NewGenerator(opts)
			if _, err := gen.AddFromStore(store); err != nil {
				return err
			}

			if opts.OutputPath == "-" {
				return gen.WriteCSV(cmd.OutOrStdout())
			}
			if err := gen.GenerateCSV(); err != nil {
				return err
			}

			total, empty := gen.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d flashcards to %s\n", total, opts.OutputPath)
			if empty > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d flashcards have no content\n", empty)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "out", "o", opts.OutputPath, "Output CSV file, - for stdout")
	cmd.Flags().StringVar(&opts.Tags, "tags", opts.Tags, "Anki tags added to every card")
	cmd.Flags().BoolVar(&opts.IncludeHeaders, "headers", opts.IncludeHeaders, "Write a header row")

	return cmd
}
