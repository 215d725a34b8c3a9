// Package billing turns the flats and charge types of a society into monthly
// maintenance bills.
package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"society/internal/logger"
	"society/internal/storage"
	"society/pkg/models"
)

// Request selects the period and flats to bill.
type Request struct {
	Month int
	Year  int
	// FlatID restricts generation to one flat. Empty means every active flat.
	FlatID string
	// SkipExisting leaves out flats that already have a bill for the period
	// instead of failing the whole run.
	SkipExisting bool
}

// Result describes one generation run.
type Result struct {
	Created []models.Bill
	// Skipped holds the ids of flats that already had a bill for the period.
	Skipped []string
}

// Generator creates and removes bills.
type Generator struct {
	store storage.Store
	txm   storage.TransactionManager
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// NewGenerator creates a bill generator over store
func NewGenerator(store storage.Store, txm storage.TransactionManager) *Generator {
	return &Generator{
		store: store,
		txm:   txm,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger.WithComponent("billing"),
	}
}

// Generate creates one bill per selected active flat for the requested period.
// Either every new bill is stored or none is.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	const op = "Generate"

	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return nil, fmt.Errorf("%s: %w: %02d/%d", op, ErrInvalidPeriod, req.Month, req.Year)
	}

	settings, err := g.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	masterData, err := g.store.GetMasterData(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	flats, err := g.store.GetFlats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	targets := selectFlats(flats, req.FlatID)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveFlats)
	}

	settings = settings.WithDefaults()
	chargeTypes := FilterBillable(masterData.ChargeTypes)
	opts := OptionsFromSettings(settings)

	result := &Result{Created: []models.Bill{}}
	err = g.txm.WithTransaction(ctx, func(ctx context.Context, tx *storage.Tx) error {
		billed := billedFlats(tx.Bills, req.Month, req.Year)

		var pending []models.Flat
		for _, flat := range targets {
			if billed[flat.ID] {
				result.Skipped = append(result.Skipped, flat.ID)
				continue
			}
			pending = append(pending, flat)
		}

		if len(result.Skipped) > 0 && !req.SkipExisting {
			return fmt.Errorf("%w: %d of %d flat(s) already billed for %02d/%d",
				ErrBillsExist, len(result.Skipped), len(targets), req.Month, req.Year)
		}
		if len(pending) == 0 {
			return nil
		}

		now := g.now().UTC()
		dueDate := DueDate(req.Year, req.Month, settings.BillingDay, settings.DueDays)
		seq := NextSequence(periodNumbers(tx.Bills, req.Month, req.Year), settings.BillPrefix, req.Year, req.Month)

		for _, flat := range pending {
			charges := Calculate(flat, chargeTypes, opts)
			previousDue := PreviousDue(tx.Bills, flat.ID, settings.ArrearsMode)

			bill := models.Bill{
				ID:          g.newID(),
				BillNo:      FormatNumber(settings.BillPrefix, req.Year, req.Month, seq),
				FlatID:      flat.ID,
				Month:       req.Month,
				Year:        req.Year,
				LineItems:   charges.LineItems,
				TotalAmount: charges.Total,
				PreviousDue: previousDue,
				Interest:    decimal.Zero,
				Penalty:     decimal.Zero,
				GrandTotal:  charges.Total.Add(previousDue),
				Status:      models.BillPending,
				PaidAmount:  decimal.Zero,
				DueDate:     dueDate,
				GeneratedAt: now,
			}
			seq++
			result.Created = append(result.Created, bill)
		}

		tx.Bills = append(tx.Bills, result.Created...)
		tx.MarkBillsChanged()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g.log.Info().
		Int("month", req.Month).
		Int("year", req.Year).
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Msg("Bills generated")

	return result, nil
}

// DeleteBill removes a bill that no payment references.
func (g *Generator) DeleteBill(ctx context.Context, id string) error {
	const op = "DeleteBill"

	err := g.txm.WithTransaction(ctx, func(ctx context.Context, tx *storage.Tx) error {
		idx := models.FindBill(tx.Bills, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrBillNotFound, id)
		}

		linked := 0
		for _, p := range tx.Payments {
			if p.LinkedBill() == id {
				linked++
			}
		}
		if linked > 0 {
			return fmt.Errorf("%w: %s has %d payment(s)", ErrBillHasPayments, tx.Bills[idx].BillNo, linked)
		}

		tx.Bills = append(tx.Bills[:idx], tx.Bills[idx+1:]...)
		tx.MarkBillsChanged()
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	g.log.Info().Str("bill_id", id).Msg("Bill deleted")
	return nil
}

// Filter narrows a bill listing. Zero values match everything.
type Filter struct {
	Month  int
	Year   int
	FlatID string
	Status models.BillStatus
}

// Match reports whether the bill passes the filter
func (f Filter) Match(b models.Bill) bool {
	if f.Month != 0 && b.Month != f.Month {
		return false
	}
	if f.Year != 0 && b.Year != f.Year {
		return false
	}
	if f.FlatID != "" && b.FlatID != f.FlatID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// ListBills returns matching bills, newest period first.
func (g *Generator) ListBills(ctx context.Context, filter Filter) ([]models.Bill, error) {
	const op = "ListBills"

	bills, err := g.store.GetBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := []models.Bill{}
	for _, b := range bills {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	SortNewestFirst(out)
	return out, nil
}

// SortNewestFirst orders bills by period then generation time, most recent first
func SortNewestFirst(bills []models.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		a, b := bills[i], bills[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.GeneratedAt.After(b.GeneratedAt)
	})
}

// DueDate is the billing day of the period plus dueDays. Days past the end of
// the month roll over into the next one.
func DueDate(year, month, billingDay, dueDays int) time.Time {
	return time.Date(year, time.Month(month), billingDay, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dueDays)
}

// PreviousDue computes the arrears a new bill of the flat carries forward.
func PreviousDue(bills []models.Bill, flatID string, mode models.ArrearsMode) decimal.Decimal {
	flatBills := storage.BillsOfFlat(bills, flatID)

	if mode == models.ArrearsLatestBill {
		if len(flatBills) == 0 {
			return decimal.Zero
		}
		SortNewestFirst(flatBills)
		latest := flatBills[0]
		if latest.Status == models.BillPaid || !latest.Balance().IsPositive() {
			return decimal.Zero
		}
		return latest.Balance()
	}

	total := decimal.Zero
	for _, b := range flatBills {
		if b.Status != models.BillPaid {
			total = total.Add(b.Balance())
		}
	}
	return total
}

func selectFlats(flats []models.Flat, flatID string) []models.Flat {
	var out []models.Flat
	for _, f := range flats {
		if !f.Active() {
			continue
		}
		if flatID != "" && f.ID != flatID {
			continue
		}
		out = append(out, f)
	}
	return out
}

func billedFlats(bills []models.Bill, month, year int) map[string]bool {
	out := make(map[string]bool)
	for _, b := range bills {
		if b.Month == month && b.Year == year {
			out[b.FlatID] = true
		}
	}
	return out
}

func periodNumbers(bills []models.Bill, month, year int) []string {
	var out []string
	for _, b := range bills {
		if b.Month == month && b.Year == year {
			out = append(out, b.BillNo)
		}
	}
	return out
}
