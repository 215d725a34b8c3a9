package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"society/internal/logger"
	"society/internal/payment"
	"society/pkg/models"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Record, list and delete payments",
}

var paymentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a payment received from a flat",
	Long: `Record a payment and apply it to the linked bill, updating the bill's
paid amount and status. A payment without --bill is kept as an advance.

Examples:
  society payments add --flat flat-101 --bill bill-abc --amount 2500 --mode upi --date 2024-04-08
  society payments add --flat flat-101 --amount 1000 --mode cash --date 2024-04-08`,
	RunE: runPaymentsAdd,
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments, latest first",
	RunE:  runPaymentsList,
}

var paymentsDeleteCmd = &cobra.Command{
	Use:   "delete <payment-id>",
	Short: "Delete a payment and reverse it on its bill",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsDelete,
}

func init() {
	paymentsAddCmd.Flags().String("flat", "", "Flat the payment is from (required)")
	paymentsAddCmd.Flags().String("bill", "", "Bill the payment settles")
	paymentsAddCmd.Flags().String("amount", "", "Amount received (required)")
	paymentsAddCmd.Flags().String("mode", string(models.PaymentCash), "Payment mode (cash, cheque, upi, bank_transfer)")
	paymentsAddCmd.Flags().String("date", "", "Payment date, YYYY-MM-DD (required)")
	paymentsAddCmd.Flags().String("reference", "", "Cheque or transaction reference")
	paymentsAddCmd.Flags().String("received-by", "", "Who received the payment")
	paymentsAddCmd.Flags().String("remarks", "", "Free-form remarks")
	_ = paymentsAddCmd.MarkFlagRequired("flat")
	_ = paymentsAddCmd.MarkFlagRequired("amount")
	_ = paymentsAddCmd.MarkFlagRequired("date")

	paymentsListCmd.Flags().String("flat", "", "Only payments of this flat")
	paymentsListCmd.Flags().String("bill", "", "Only payments of this bill")
	paymentsListCmd.Flags().String("mode", "", "Only payments made in this mode")
	paymentsListCmd.Flags().String("from", "", "Only payments on or after this date (YYYY-MM-DD)")
	paymentsListCmd.Flags().String("to", "", "Only payments on or before this date (YYYY-MM-DD)")

	paymentsCmd.AddCommand(paymentsAddCmd, paymentsListCmd, paymentsDeleteCmd)
	rootCmd.AddCommand(paymentsCmd)
}

func runPaymentsAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payments")

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return handleError(payment.ErrInvalidAmount, log)
	}
	date, err := parseDateFlag(cmd, "date")
	if err != nil {
		return err
	}

	flatID, _ := cmd.Flags().GetString("flat")
	billID, _ := cmd.Flags().GetString("bill")
	mode, _ := cmd.Flags().GetString("mode")
	reference, _ := cmd.Flags().GetString("reference")
	receivedBy, _ := cmd.Flags().GetString("received-by")
	remarks, _ := cmd.Flags().GetString("remarks")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}
	log = logger.WithSociety("payments", a.cfg.SocietyID)

	p, err := a.payments.Record(ctx, payment.Input{
		FlatID:      flatID,
		BillID:      billID,
		Amount:      amount,
		Mode:        models.PaymentMode(mode),
		Date:        date,
		ReferenceNo: reference,
		ReceivedBy:  receivedBy,
		Remarks:     remarks,
	})
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, p, log)
}

func runPaymentsList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payments")

	from, err := parseDateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := parseDateFlag(cmd, "to")
	if err != nil {
		return err
	}
	flatID, _ := cmd.Flags().GetString("flat")
	billID, _ := cmd.Flags().GetString("bill")
	mode, _ := cmd.Flags().GetString("mode")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	payments, err := a.payments.List(ctx, payment.Filter{
		FlatID: flatID,
		BillID: billID,
		Mode:   models.PaymentMode(mode),
		From:   from,
		To:     to,
	})
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, payments, log)
}

func runPaymentsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payments")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, log)
	if err != nil {
		return err
	}

	p, err := a.payments.Delete(ctx, args[0])
	if err != nil {
		return handleError(err, log)
	}

	return writeOutput(cmd, p, log)
}
