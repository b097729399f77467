package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/smartdict/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smartdict [word]",
		Short: "English dictionary with Vietnamese translations",
		Long: `smartdict looks up English words and phrases in the Merriam-Webster
dictionary and thesaurus and translates each definition to Vietnamese.

Examples:
  smartdict                          # Launch interactive GUI (default)
  smartdict run                      # Definitions of "run" with translations
  smartdict happy --mode synonyms    # Synonyms and antonyms
  smartdict "give up" --mode phrasal # Phrasal verbs only
  smartdict --batch words.txt        # Look up every line of a file
  smartdict card list                # List saved flashcards`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newNotesCommand("essay", "Manage essay notes", flags),
		newNotesCommand("card", "Manage saved flashcards", flags),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.smartdict.yaml)")
	cmd.PersistentFlags().StringVar(&flags.NotesDir, "notes-dir", flags.NotesDir, "Directory for flashcards and essays")
	cmd.PersistentFlags().StringVar(&flags.NotesBackend, "notes-backend", flags.NotesBackend, "Notes storage: json or sqlite")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	// Local flags
	cmd.Flags().StringVarP(&flags.Mode, "mode", "m", flags.Mode, "Lookup view: meaning, synonyms or phrasal")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Look up words from file (one per line, optional 'synonyms:' or 'phrasal:' prefix)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models usable for translation")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the notes directory to a timestamped archive")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored terminal output")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable the in-memory result cache")

	// Translation flags
	cmd.Flags().StringVarP(&flags.Provider, "provider", "p", flags.Provider, "Translation backend: google, openai or gemini")
	cmd.Flags().StringVar(&flags.SourceLang, "source", flags.SourceLang, "Language of the definitions")
	cmd.Flags().StringVar(&flags.TargetLang, "target", flags.TargetLang, "Language to translate definitions to")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.source", cmd.Flags().Lookup("source"))
	viper.BindPFlag("translation.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("notes.dir", cmd.PersistentFlags().Lookup("notes-dir"))
	viper.BindPFlag("notes.backend", cmd.PersistentFlags().Lookup("notes-backend"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".smartdict" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".smartdict")
	}

	// Environment variables, e.g. SMARTDICT_DICTIONARY_KEY for dictionary.key
	viper.SetEnvPrefix("SMARTDICT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
