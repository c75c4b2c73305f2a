package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorPrefix("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "uigen",
		Short:         "Generate self-contained HTML user interfaces from a description",
		Long:          "uigen sends a UI description to Gemini and returns a single self-contained HTML file plus accessibility suggestions.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newGenerateCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return rootCmd
}
