package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"society/internal/billing"
	"society/internal/logger"
	"society/pkg/models"
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Generate, list and delete maintenance bills",
}

var billsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate maintenance bills for a billing period",
	Long: `Generate one maintenance bill per active flat for the given month.

Charges come from the active monthly charge types in the master data. Unpaid
balances of earlier bills are carried forward as the previous due, following
the arrears mode in the society settings.

Examples:
  society bills generate --month 4 --year 2024
  society bills generate --month 4 --year 2024 --flat flat-101
  society bills generate --month 4 --year 2024 --skip-existing -o bills.json`,
	RunE: runBillsGenerate,
}

var billsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bills, newest period first",
	RunE:  runBillsList,
}

var billsDeleteCmd = &cobra.Command{
	Use:   "delete <bill-id>",
	Short: "Delete a bill that has no payments",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillsDelete,
}

func init() {
	now := time.Now()

	billsGenerateCmd.Flags().Int("month", int(now.Month()), "Billing month (1-12)")
	billsGenerateCmd.Flags().Int("year", now.Year(), "Billing year")
	billsGenerateCmd.Flags().String("flat", "", "Bill only this flat")
	billsGenerateCmd.Flags().Bool("skip-existing", false, "Skip flats already billed for the period instead of failing")

	billsListCmd.Flags().Int("month", 0, "Only bills of this month")
	billsListCmd.Flags().Int("year", 0, "Only bills of this year")
	billsListCmd.Flags().String("flat", "", "Only bills of this flat")
	billsListCmd.Flags().String("status", "", "Only bills with this status (pending, partial, paid)")

	billsCmd.AddCommand(billsGenerateCmd, billsListCmd, billsDeleteCmd)
	rootCmd.AddCommand(billsCmd)
}

func runBillsGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bills")

	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	flatID, _ := cmd.Flags().GetString("flat")
	skip, _ := cmd.Flags().GetBool("skip-existing")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	log = logger.WithSociety("bills", a.cfg.SocietyID)

	log.Info().
		Int("month", month).
		Int("year", year).
		Str("flat_id", flatID).
		Bool("skip_existing", skip).
		Msg("Generating bills")

	result, err := a.bills.Generate(ctx, billing.Request{
		Month:        month,
		Year:         year,
		FlatID:       flatID,
		SkipExisting: skip,
	})
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, result, log)
}

func runBillsList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bills")

	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	flatID, _ := cmd.Flags().GetString("flat")
	status, _ := cmd.Flags().GetString("status")

	if status != "" && !models.BillStatus(status).Valid() {
		return fmt.Errorf("invalid --status %q: must be pending, partial or paid", status)
	}

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	bills, err := a.bills.ListBills(ctx, billing.Filter{
		Month:  month,
		Year:   year,
		FlatID: flatID,
		Status: models.BillStatus(status),
	})
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, bills, log)
}

func runBillsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bills")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	if err := a.bills.DeleteBill(ctx, args[0]); err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, map[string]string{"deleted": args[0]}, log)
}
