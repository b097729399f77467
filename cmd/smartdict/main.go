package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/smartdict/internal/cli"
	"codeberg.org/snonux/smartdict/internal/logging"
	"codeberg.org/snonux/smartdict/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	settings := cli.LoadSettings()

	logger := logging.NewLogger(settings.LogLevel, settings.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	proc := processor.NewProcessor(flags, settings, os.Stdout, logger)

	switch {
	case flags.Archive:
		return proc.ArchiveNotes()
	case flags.ListModels:
		return proc.ListModels(cmd.Context())
	case flags.BatchFile != "":
		return proc.ProcessBatch()
	case len(args) > 0:
		return proc.ProcessSingleWord(strings.Join(args, " "))
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}
}
