// Package payment records money received from flats and keeps the paid amount
// and status of the linked bills in step.
package payment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"society/internal/billing"
	"society/internal/logger"
	"society/internal/storage"
	"society/pkg/models"
)

// Input is a payment as entered by the collector.
type Input struct {
	FlatID string
	// BillID links the payment to a bill. Empty records an advance payment.
	BillID      string
	Amount      decimal.Decimal
	Mode        models.PaymentMode
	Date        time.Time
	ReferenceNo string
	ReceivedBy  string
	Remarks     string
}

// Service records and deletes payments.
type Service struct {
	store storage.Store
	txm   storage.TransactionManager
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// NewService creates a payment service over store
func NewService(store storage.Store, txm storage.TransactionManager) *Service {
	return &Service{
		store: store,
		txm:   txm,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger.WithComponent("payment"),
	}
}

// Record stores a payment and, when it is linked to a bill, adds the amount to
// the bill and recomputes its status. The payment and the bill change are
// committed together.
func (s *Service) Record(ctx context.Context, in Input) (*models.Payment, error) {
	const op = "Record"

	if in.FlatID == "" {
		return nil, fmt.Errorf("%s: %w: flat id is required", op, ErrFlatNotFound)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalidAmount, in.Amount)
	}
	if !in.Mode.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidMode, in.Mode)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingDate)
	}

	flats, err := s.store.GetFlats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if models.FindFlat(flats, in.FlatID) == nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrFlatNotFound, in.FlatID)
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	settings = settings.WithDefaults()

	var recorded models.Payment
	err = s.txm.WithTransaction(ctx, func(ctx context.Context, tx *storage.Tx) error {
		var billID *string
		if in.BillID != "" {
			idx := models.FindBill(tx.Bills, in.BillID)
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrBillNotFound, in.BillID)
			}
			bill := &tx.Bills[idx]
			if bill.FlatID != in.FlatID {
				return fmt.Errorf("%w: bill %s is for flat %s", ErrBillFlatMismatch, bill.BillNo, bill.FlatID)
			}

			bill.ApplyPaid(bill.PaidAmount.Add(in.Amount))
			if bill.PaidAmount.GreaterThan(bill.GrandTotal) {
				s.log.Warn().
					Str("bill_no", bill.BillNo).
					Str("grand_total", bill.GrandTotal.String()).
					Str("paid_amount", bill.PaidAmount.String()).
					Msg("Bill overpaid")
			}
			tx.MarkBillsChanged()

			id := bill.ID
			billID = &id
		}

		year, month := in.Date.Year(), int(in.Date.Month())
		seq := billing.NextSequence(receiptNumbers(tx.Payments, year, month), settings.ReceiptPrefix, year, month)

		recorded = models.Payment{
			ID:          s.newID(),
			ReceiptNo:   billing.FormatNumber(settings.ReceiptPrefix, year, month, seq),
			FlatID:      in.FlatID,
			BillID:      billID,
			Amount:      in.Amount,
			PaymentMode: in.Mode,
			PaymentDate: in.Date,
			ReferenceNo: in.ReferenceNo,
			ReceivedBy:  in.ReceivedBy,
			Remarks:     in.Remarks,
			CreatedAt:   s.now().UTC(),
		}
		tx.Payments = append(tx.Payments, recorded)
		tx.MarkPaymentsChanged()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().
		Str("receipt_no", recorded.ReceiptNo).
		Str("flat_id", recorded.FlatID).
		Str("amount", recorded.Amount.String()).
		Str("mode", string(recorded.PaymentMode)).
		Msg("Payment recorded")

	return &recorded, nil
}

// Delete removes a payment and reverses its effect on the linked bill.
func (s *Service) Delete(ctx context.Context, id string) (*models.Payment, error) {
	const op = "Delete"

	var deleted models.Payment
	err := s.txm.WithTransaction(ctx, func(ctx context.Context, tx *storage.Tx) error {
		idx := models.FindPayment(tx.Payments, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPaymentNotFound, id)
		}
		deleted = tx.Payments[idx]

		if billID := deleted.LinkedBill(); billID != "" {
			if b := models.FindBill(tx.Bills, billID); b >= 0 {
				bill := &tx.Bills[b]
				bill.ApplyPaid(decimal.Max(decimal.Zero, bill.PaidAmount.Sub(deleted.Amount)))
				tx.MarkBillsChanged()
			} else {
				s.log.Warn().Str("payment_id", id).Str("bill_id", billID).Msg("Linked bill no longer exists")
			}
		}

		tx.Payments = append(tx.Payments[:idx], tx.Payments[idx+1:]...)
		tx.MarkPaymentsChanged()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().Str("receipt_no", deleted.ReceiptNo).Msg("Payment deleted")
	return &deleted, nil
}

// Filter narrows a payment listing. Zero values match everything; From and To
// compare calendar dates and are inclusive.
type Filter struct {
	FlatID string
	BillID string
	Mode   models.PaymentMode
	From   time.Time
	To     time.Time
}

// Match reports whether the payment passes the filter
func (f Filter) Match(p models.Payment) bool {
	if f.FlatID != "" && p.FlatID != f.FlatID {
		return false
	}
	if f.BillID != "" && p.LinkedBill() != f.BillID {
		return false
	}
	if f.Mode != "" && p.PaymentMode != f.Mode {
		return false
	}
	return models.InDateRange(p.PaymentDate, f.From, f.To)
}

// List returns matching payments, latest payment date first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Payment, error) {
	const op = "List"

	payments, err := s.store.GetPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := []models.Payment{}
	for _, p := range payments {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	return out, nil
}

func receiptNumbers(payments []models.Payment, year, month int) []string {
	var out []string
	for _, p := range payments {
		if p.PaymentDate.Year() == year && int(p.PaymentDate.Month()) == month {
			out = append(out, p.ReceiptNo)
		}
	}
	return out
}
