package cmd

import (
	"github.com/spf13/cobra"
	"society/internal/ledger"
	"society/internal/logger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger <flat-id>",
	Short: "Show the running account of a flat",
	Long: `Show every bill and payment of a flat in date order, with the running
balance after each entry. Bills are debits, payments are credits.`,
	Args: cobra.ExactArgs(1),
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ledger")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	l, err := ledger.ForFlat(ctx, a.store, args[0])
	if err != nil {
		return handleError(err, log)
	}

	log.Debug().
		Str("flat_id", args[0]).
		Int("entries", len(l.Entries)).
		Str("balance", l.Balance.StringFixed(2)).
		Msg("Ledger built")

	return writeOutput(cmd, l, log)
}
