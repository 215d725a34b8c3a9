// Package ledger builds the running account statement of a flat.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// ErrFlatNotFound is returned when the requested flat does not exist.
var ErrFlatNotFound = errors.New("flat not found")

// EntryKind tells whether an entry charges or credits the flat.
type EntryKind string

const (
	KindBill    EntryKind = "bill"
	KindPayment EntryKind = "payment"
)

// Entry is one line of the statement.
type Entry struct {
	Date        time.Time       `json:"date"`
	Kind        EntryKind       `json:"kind"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Ledger is the chronological statement of one flat.
type Ledger struct {
	Flat        models.Flat     `json:"flat"`
	Entries     []Entry         `json:"entries"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	// Balance is the amount the flat owes; negative means an advance.
	Balance decimal.Decimal `json:"balance"`
}

// Build merges the flat's bills and payments into a statement with a running
// balance. Records of other flats are ignored. Each bill debits its grand
// total, so the final balance is the sum of grand totals less the sum of
// payments.
func Build(flat models.Flat, bills []models.Bill, payments []models.Payment) *Ledger {
	var entries []Entry

	for _, b := range bills {
		if b.FlatID != flat.ID {
			continue
		}
		entries = append(entries, Entry{
			Date:        b.GeneratedAt,
			Kind:        KindBill,
			Reference:   b.BillNo,
			Description: fmt.Sprintf("Bill - %s %d (%s)", time.Month(b.Month), b.Year, b.BillNo),
			Debit:       b.GrandTotal,
			Credit:      decimal.Zero,
		})
	}
	for _, p := range payments {
		if p.FlatID != flat.ID {
			continue
		}
		entries = append(entries, Entry{
			Date:        p.PaymentDate,
			Kind:        KindPayment,
			Reference:   p.ReceiptNo,
			Description: fmt.Sprintf("Payment - %s (%s)", p.ReceiptNo, p.PaymentMode.Label()),
			Debit:       decimal.Zero,
			Credit:      p.Amount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Kind == KindBill && entries[j].Kind == KindPayment
	})

	l := &Ledger{
		Flat:        flat,
		Entries:     []Entry{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Balance:     decimal.Zero,
	}
	for _, e := range entries {
		l.TotalDebit = l.TotalDebit.Add(e.Debit)
		l.TotalCredit = l.TotalCredit.Add(e.Credit)
		l.Balance = l.Balance.Add(e.Debit).Sub(e.Credit)
		e.Balance = l.Balance
		l.Entries = append(l.Entries, e)
	}
	return l
}

// ForFlat loads the flat's records from store and builds its ledger.
func ForFlat(ctx context.Context, store storage.Store, flatID string) (*Ledger, error) {
	const op = "ForFlat"

	flats, err := store.GetFlats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	flat := models.FindFlat(flats, flatID)
	if flat == nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrFlatNotFound, flatID)
	}

	bills, err := store.GetBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payments, err := store.GetPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Build(*flat, bills, payments), nil
}
