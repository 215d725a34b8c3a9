package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"society/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "society",
	Short: "Society CLI - maintenance billing for housing societies",
	Long: `Society CLI manages the maintenance accounts of a housing society whose
records live in a Google Spreadsheet.

It generates monthly maintenance bills for every flat, records payments
and expenses, and produces ledgers and financial reports. The same
operations are available as a JSON API through the serve command.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().Int("timeout", 120, "Operation timeout in seconds")
}
