package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"society/internal/logger"
	"society/internal/reports"
	"society/internal/storage"
	"society/pkg/models"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Financial reports of the society",
}

var reportOutstandingCmd = &cobra.Command{
	Use:   "outstanding",
	Short: "Unpaid and partially paid bills with days overdue",
	RunE: runReport(func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error) {
		return reports.Outstanding(ws, time.Now()), nil
	}),
}

var reportCollectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Payments received in a date range, with totals per mode",
	RunE: runReport(func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error) {
		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return nil, err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return nil, err
		}
		if to.Before(from) {
			return nil, fmt.Errorf("--to must not be before --from")
		}
		return reports.Collection(ws, from, to), nil
	}),
}

var reportFeePositionCmd = &cobra.Command{
	Use:   "fee-position",
	Short: "Per-flat billed, paid and balance by charge type",
	RunE: runReport(func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error) {
		asOf, err := parseDateFlag(cmd, "as-of")
		if err != nil {
			return nil, err
		}
		if asOf.IsZero() {
			asOf = time.Now()
		}
		building, _ := cmd.Flags().GetString("building")
		return reports.FeePosition(ws, asOf, building), nil
	}),
}

var reportIncomeExpenseCmd = &cobra.Command{
	Use:   "income-expense",
	Short: "Income and expenses of a financial year",
	RunE: runReport(func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error) {
		fy := models.FinancialYearOf(time.Now())
		if start, _ := cmd.Flags().GetInt("fy"); start != 0 {
			fy = models.FinancialYear(start)
		}
		return reports.IncomeExpense(ws, fy), nil
	}),
}

var reportDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summary counts, totals and recent activity",
	RunE: runReport(func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error) {
		return reports.Summarize(ws, time.Now()), nil
	}),
}

func init() {
	reportCollectionCmd.Flags().String("from", "", "First day of the range, YYYY-MM-DD (required)")
	reportCollectionCmd.Flags().String("to", "", "Last day of the range, YYYY-MM-DD (required)")
	_ = reportCollectionCmd.MarkFlagRequired("from")
	_ = reportCollectionCmd.MarkFlagRequired("to")

	reportFeePositionCmd.Flags().String("as-of", "", "Report position as of this date, YYYY-MM-DD (default: today)")
	reportFeePositionCmd.Flags().String("building", "", "Only flats of this building")

	reportIncomeExpenseCmd.Flags().Int("fy", 0, "Starting year of the financial year, e.g. 2024 for 2024-25 (default: current)")

	reportsCmd.AddCommand(
		reportOutstandingCmd,
		reportCollectionCmd,
		reportFeePositionCmd,
		reportIncomeExpenseCmd,
		reportDashboardCmd,
	)
	rootCmd.AddCommand(reportsCmd)
}

// runReport loads the society once and writes the report build returns
func runReport(build func(cmd *cobra.Command, ws *storage.Workspace) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("reports")

		ctx, cancel := createContext(cmd, log)
		defer cancel()

		a, err := openApp(ctx, log)
		if err != nil {
			return err
		}

		ws, err := storage.LoadWorkspace(ctx, a.store)
		if err != nil {
			return handleError(err, log)
		}

		report, err := build(cmd, ws)
		if err != nil {
			return err
		}

		log.Debug().
			Str("report", cmd.Name()).
			Msg("Report built")

		return writeOutput(cmd, report, log)
	}
}
