// Package cli provides command-line interface setup and configuration
// for the smartdict application. It handles flag parsing, command
// creation, the notes subcommands and configuration management using
// cobra and viper.
package cli
