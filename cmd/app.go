package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"society/internal/billing"
	"society/internal/config"
	"society/internal/drive"
	"society/internal/expense"
	"society/internal/googleauth"
	"society/internal/ledger"
	"society/internal/payment"
	"society/internal/sheets"
	"society/internal/storage"
)

// app holds the services of one society, wired to its spreadsheet.
type app struct {
	cfg      *config.Config
	sheets   *sheets.Service
	store    storage.Store
	bills    *billing.Generator
	payments *payment.Service
	expenses *expense.Service
}

// openApp loads the configuration and connects to the society's spreadsheet
func openApp(ctx context.Context, log zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return nil, fmt.Errorf("invalid configuration. Please check your .env file:\n"+
			"  SOCIETY_ID - identifier of the society\n"+
			"  GOOGLE_SHEET_URL - URL or ID of the society's spreadsheet\n"+
			"Original error: %w", err)
	}

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return nil, handleError(err, log)
	}

	var uploader expense.ReceiptUploader
	if cfg.GoogleDriveFolderID != "" {
		driveService, err := drive.NewDriveService(ctx, cfg.GoogleDriveFolderID)
		if err != nil {
			log.Warn().Err(err).Msg("Receipt uploads disabled")
		} else {
			uploader = driveService
		}
	}

	store := storage.NewDocumentStore(sheetsService)
	txm := storage.NewTransactionManager(store)

	log.Debug().
		Str("society_id", cfg.SocietyID).
		Str("spreadsheet_id", sheetsService.SpreadsheetID()).
		Bool("receipt_uploads", uploader != nil).
		Msg("Society opened")

	return &app{
		cfg:      cfg,
		sheets:   sheetsService,
		store:    store,
		bills:    billing.NewGenerator(store, txm),
		payments: payment.NewService(store, txm),
		expenses: expense.NewService(store, uploader),
	}, nil
}

// createContext creates a context with the --timeout flag and signal handling
func createContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// writeOutput prints v as indented JSON to stdout or the --output file
func writeOutput(cmd *cobra.Command, v interface{}, log zerolog.Logger) error {
	outputPath, _ := cmd.Flags().GetString("output")

	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Output written to file")
		return nil
	}

	if _, err := cmd.OutOrStdout().Write(append(jsonData, '\n')); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// handleError provides user-friendly error messages for failed operations
func handleError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Operation failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("operation timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.Is(err, googleauth.ErrMissingCredentials):
		return fmt.Errorf("missing Google credentials. Please set one of:\n" +
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n" +
			"  GOOGLE_CREDENTIALS='<json-credentials>'")
	case errors.Is(err, sheets.ErrSheetNotFound):
		return fmt.Errorf("the spreadsheet is missing a society sheet. Run 'society init' first: %w", err)
	case errors.Is(err, storage.ErrMalformedDocument):
		return fmt.Errorf("the spreadsheet holds data this tool cannot read. Fix the sheet named below and retry:\n%w", err)
	case errors.Is(err, storage.ErrInconsistentWrite):
		return fmt.Errorf("bills and payments may be out of step after a failed write. Check the flat's ledger: %w", err)
	case errors.Is(err, billing.ErrBillsExist):
		return fmt.Errorf("%w. Use --skip-existing to bill only the remaining flats", err)
	case errors.Is(err, billing.ErrNoActiveFlats):
		return fmt.Errorf("no active flats to bill. Check the flat id or add flats to the Flats sheet")
	case errors.Is(err, billing.ErrBillHasPayments):
		return fmt.Errorf("%w. Delete its payments first", err)
	case errors.Is(err, billing.ErrBillNotFound),
		errors.Is(err, payment.ErrBillNotFound),
		errors.Is(err, payment.ErrFlatNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, ledger.ErrFlatNotFound),
		errors.Is(err, expense.ErrExpenseNotFound):
		return err
	case strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "credentials"):
		return fmt.Errorf("Google authentication failed. Please check your credentials and make sure\n"+
			"the service account has edit access to the spreadsheet.\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return fmt.Errorf("permission denied. Share the spreadsheet with the service account email")
	default:
		return err
	}
}

// parseDateFlag reads an optional YYYY-MM-DD flag
func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}
