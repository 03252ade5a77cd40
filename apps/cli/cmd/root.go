package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "reqx",
	Short: "Typed HTTP calls from the command line. No magic.",
	Long: `reqx executes one HTTP request described in a small YAML file,
validates the response status, decodes the body, and prints the result.
Every failure is classified: invalid response, decoding error, or
network error — and the exit code tells you which.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(versionCmd)
}
