// Package expense records the society's spending and files receipt images.
package expense

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"society/internal/drive"
	"society/internal/logger"
	"society/internal/storage"
	"society/pkg/models"
)

// ReceiptUploader stores a receipt image and returns where it lives.
// *drive.Service implements it.
type ReceiptUploader interface {
	UploadReceipt(ctx context.Context, folderName, fileName string, content io.Reader) (*drive.UploadedFile, error)
}

// Receipt is an image attached to an expense.
type Receipt struct {
	FileName string
	Content  io.Reader
}

// Input is an expense as entered by the treasurer. A non-empty ID updates the
// existing expense.
type Input struct {
	ID            string
	Date          time.Time
	Category      models.ExpenseCategory
	Description   string
	Amount        decimal.Decimal
	PaidTo        string
	ReceiptNumber string
	PaymentMode   models.PaymentMode
	Notes         string
	Receipt       *Receipt
}

// Service adds, updates and deletes expenses.
type Service struct {
	store    storage.Store
	uploader ReceiptUploader
	mu       sync.Mutex
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger
}

// NewService creates an expense service. uploader may be nil, in which case
// receipt images are not stored.
func NewService(store storage.Store, uploader ReceiptUploader) *Service {
	return &Service{
		store:    store,
		uploader: uploader,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      logger.WithComponent("expense"),
	}
}

// Save validates the input and adds or updates the expense. A receipt image
// that fails to upload is logged and the expense is saved without it.
func (s *Service) Save(ctx context.Context, in Input) (*models.Expense, error) {
	const op = "Save"

	now := s.now().UTC()
	if err := validate(in, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.store.GetExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var e models.Expense
	idx := -1
	if in.ID != "" {
		idx = findExpense(expenses, in.ID)
		if idx < 0 {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrExpenseNotFound, in.ID)
		}
		e = expenses[idx]
	} else {
		e = models.Expense{ID: s.newID(), CreatedAt: now}
	}

	e.Date = in.Date
	e.Category = in.Category
	e.Description = in.Description
	e.Amount = in.Amount
	e.PaidTo = in.PaidTo
	e.ReceiptNumber = in.ReceiptNumber
	e.PaymentMode = in.PaymentMode
	e.Notes = in.Notes
	e.UpdatedAt = now

	if in.Receipt != nil {
		s.attachReceipt(ctx, &e, in.Receipt, now)
	}

	if idx >= 0 {
		expenses[idx] = e
	} else {
		expenses = append(expenses, e)
	}
	if err := s.store.SaveExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().
		Str("expense_id", e.ID).
		Str("category", string(e.Category)).
		Str("amount", e.Amount.String()).
		Bool("updated", idx >= 0).
		Msg("Expense saved")

	return &e, nil
}

func (s *Service) attachReceipt(ctx context.Context, e *models.Expense, r *Receipt, now time.Time) {
	if s.uploader == nil {
		s.log.Warn().Str("file", r.FileName).Msg("No receipt storage configured, skipping receipt image")
		return
	}

	folder := models.FinancialYearOf(e.Date).FolderName()
	name := fmt.Sprintf("receipt_%s_%s", now.Format("2006-01-02T15-04-05"), r.FileName)

	file, err := s.uploader.UploadReceipt(ctx, folder, name, r.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("file", r.FileName).Msg("Receipt upload failed, saving expense without image")
		return
	}

	e.ReceiptImageURL = file.URL
	e.ReceiptImageID = file.ID
	e.ReceiptFileName = file.Name
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	idx := findExpense(expenses, id)
	if idx < 0 {
		return fmt.Errorf("%s: %w: %s", op, ErrExpenseNotFound, id)
	}

	expenses = append(expenses[:idx], expenses[idx+1:]...)
	if err := s.store.SaveExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().Str("expense_id", id).Msg("Expense deleted")
	return nil
}

// Filter narrows an expense listing. Zero values match everything.
type Filter struct {
	Category models.ExpenseCategory
	From     time.Time
	To       time.Time
}

// List returns matching expenses, latest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Expense, error) {
	const op = "List"

	expenses, err := s.store.GetExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := []models.Expense{}
	for _, e := range expenses {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if !models.InDateRange(e.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func validate(in Input, now time.Time) error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrOutsideFinancialYear)
	}
	if fy := models.FinancialYearOf(now); !fy.Contains(in.Date) {
		return fmt.Errorf("%w: %s is outside %s", ErrOutsideFinancialYear, in.Date.Format("2006-01-02"), fy.Label())
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if in.Description == "" {
		return ErrMissingDescription
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, in.Amount)
	}
	if in.PaymentMode != "" && !in.PaymentMode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMode, in.PaymentMode)
	}
	return nil
}

func findExpense(expenses []models.Expense, id string) int {
	for i := range expenses {
		if expenses[i].ID == id {
			return i
		}
	}
	return -1
}
