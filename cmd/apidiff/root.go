package main

import (
	"apidiff/internal/logging"
	"apidiff/internal/version"

	"github.com/spf13/cobra"
)

var (
	// verboseFlag enables debug logging on any subcommand
	verboseFlag bool
	// logFormatFlag selects the diagnostic log format (human, json)
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "apidiff",
	Short: "apidiff - compiled API surface comparison",
	Long: `apidiff compares two compiled API surfaces (a baseline and a candidate)
and reports every added, removed, and modified type or member, classified as
breaking or non-breaking. Namespace and type mappings reconcile renamed
surfaces; exclusion patterns silence known, accepted changes.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("apidiff version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "human", "Diagnostic log format (human, json)")
}

// newLogger builds the logger for a command run. Diagnostics always go to
// stderr so stdout stays reserved for report output.
func newLogger() *logging.Logger {
	level := logging.InfoLevel
	if verboseFlag {
		level = logging.DebugLevel
	}
	format := logging.HumanFormat
	if logFormatFlag == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  level,
	})
}
