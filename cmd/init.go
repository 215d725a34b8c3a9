package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"society/internal/logger"
	"society/internal/storage"
	"society/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare a spreadsheet for a society",
	Long: `Create the society sheets missing from the configured spreadsheet and
seed empty ones with default settings, the default charge types and empty
collections. Sheets that already hold data are left untouched.`,
	RunE: runInit,
}

type initResult struct {
	SpreadsheetID string   `json:"spreadsheetId"`
	CreatedSheets []string `json:"createdSheets"`
	SeededSheets  []string `json:"seededSheets"`
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("init")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	log = logger.WithSociety("init", a.cfg.SocietyID)

	names := make([]string, len(storage.AllSheets))
	for i, sheet := range storage.AllSheets {
		names[i] = string(sheet)
	}

	created, err := a.sheets.EnsureSheets(ctx, names)
	if err != nil {
		return handleError(err, log)
	}

	result := initResult{
		SpreadsheetID: a.sheets.SpreadsheetID(),
		CreatedSheets: append([]string{}, created...),
		SeededSheets:  []string{},
	}

	for _, sheet := range storage.AllSheets {
		doc, err := a.sheets.ReadDocument(ctx, string(sheet))
		if err != nil {
			return handleError(err, log)
		}
		if doc != nil {
			continue
		}
		if err := seedSheet(ctx, a, sheet); err != nil {
			return handleError(err, log)
		}
		result.SeededSheets = append(result.SeededSheets, string(sheet))
	}

	log.Info().
		Strs("created", result.CreatedSheets).
		Strs("seeded", result.SeededSheets).
		Msg("Spreadsheet ready")

	return writeOutput(cmd, result, log)
}

func seedSheet(ctx context.Context, a *app, sheet storage.Sheet) error {
	switch sheet {
	case storage.SheetSettings:
		return a.store.SaveSettings(ctx, models.DefaultSettings())
	case storage.SheetMasterData:
		return a.store.SaveMasterData(ctx, models.DefaultMasterData())
	case storage.SheetFlats:
		return a.store.SaveFlats(ctx, []models.Flat{})
	case storage.SheetBills:
		return a.store.SaveBills(ctx, []models.Bill{})
	case storage.SheetPayments:
		return a.store.SavePayments(ctx, []models.Payment{})
	case storage.SheetExpenses:
		return a.store.SaveExpenses(ctx, []models.Expense{})
	case storage.SheetUsers:
		return a.sheets.WriteDocument(ctx, string(sheet), []byte("[]"))
	default:
		return fmt.Errorf("no seed for sheet %q", sheet)
	}
}
