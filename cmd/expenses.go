package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"society/internal/expense"
	"society/internal/logger"
	"society/pkg/models"
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Record, list and delete society expenses",
}

var expensesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense of the current financial year",
	Long: `Record an expense. The date must fall in the current financial year
(April to March). With --receipt the image is uploaded to the configured
Google Drive folder and linked from the expense.

Pass --id to update an existing expense instead.

Examples:
  society expenses add --date 2024-06-03 --category utilities --description "Lift AMC" --amount 4500
  society expenses add --date 2024-06-03 --category repairs --description "Pump" --amount 1200 --receipt pump.jpg`,
	RunE: runExpensesAdd,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses, latest first",
	RunE:  runExpensesList,
}

var expensesDeleteCmd = &cobra.Command{
	Use:   "delete <expense-id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesDelete,
}

func init() {
	expensesAddCmd.Flags().String("id", "", "Update the expense with this id")
	expensesAddCmd.Flags().String("date", "", "Expense date, YYYY-MM-DD (required)")
	expensesAddCmd.Flags().String("category", "", "Expense category (required)")
	expensesAddCmd.Flags().String("description", "", "What the money was spent on (required)")
	expensesAddCmd.Flags().String("amount", "", "Amount spent (required)")
	expensesAddCmd.Flags().String("paid-to", "", "Payee")
	expensesAddCmd.Flags().String("receipt-number", "", "Vendor receipt or invoice number")
	expensesAddCmd.Flags().String("mode", "", "Payment mode (cash, cheque, upi, bank_transfer)")
	expensesAddCmd.Flags().String("notes", "", "Free-form notes")
	expensesAddCmd.Flags().String("receipt", "", "Path of a receipt image to upload")
	_ = expensesAddCmd.MarkFlagRequired("date")
	_ = expensesAddCmd.MarkFlagRequired("category")
	_ = expensesAddCmd.MarkFlagRequired("description")
	_ = expensesAddCmd.MarkFlagRequired("amount")

	expensesListCmd.Flags().String("category", "", "Only expenses of this category")
	expensesListCmd.Flags().String("from", "", "Only expenses on or after this date (YYYY-MM-DD)")
	expensesListCmd.Flags().String("to", "", "Only expenses on or before this date (YYYY-MM-DD)")

	expensesCmd.AddCommand(expensesAddCmd, expensesListCmd, expensesDeleteCmd)
	rootCmd.AddCommand(expensesCmd)
}

func runExpensesAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("expenses")

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return handleError(expense.ErrInvalidAmount, log)
	}
	date, err := parseDateFlag(cmd, "date")
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	paidTo, _ := cmd.Flags().GetString("paid-to")
	receiptNumber, _ := cmd.Flags().GetString("receipt-number")
	mode, _ := cmd.Flags().GetString("mode")
	notes, _ := cmd.Flags().GetString("notes")
	receiptPath, _ := cmd.Flags().GetString("receipt")

	in := expense.Input{
		ID:            id,
		Date:          date,
		Category:      models.ExpenseCategory(category),
		Description:   description,
		Amount:        amount,
		PaidTo:        paidTo,
		ReceiptNumber: receiptNumber,
		PaymentMode:   models.PaymentMode(mode),
		Notes:         notes,
	}

	if receiptPath != "" {
		file, err := os.Open(receiptPath)
		if err != nil {
			return fmt.Errorf("cannot read receipt %s: %w", receiptPath, err)
		}
		defer file.Close()
		in.Receipt = &expense.Receipt{FileName: filepath.Base(receiptPath), Content: file}
	}

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	log = logger.WithSociety("expenses", a.cfg.SocietyID)

	if in.Receipt != nil && a.cfg.GoogleDriveFolderID == "" {
		log.Warn().Msg("GOOGLE_DRIVE_FOLDER_ID not set, receipt will not be uploaded")
	}

	e, err := a.expenses.Save(ctx, in)
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, e, log)
}

func runExpensesList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("expenses")

	from, err := parseDateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := parseDateFlag(cmd, "to")
	if err != nil {
		return err
	}
	category, _ := cmd.Flags().GetString("category")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	expenses, err := a.expenses.List(ctx, expense.Filter{
		Category: models.ExpenseCategory(category),
		From:     from,
		To:       to,
	})
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, expenses, log)
}

func runExpensesDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("expenses")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	if err := a.expenses.Delete(ctx, args[0]); err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, map[string]string{"deleted": args[0]}, log)
}
