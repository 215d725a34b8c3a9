package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies society spending.
type ExpenseCategory string

const (
	ExpenseMaintenance    ExpenseCategory = "maintenance"
	ExpenseRepairs        ExpenseCategory = "repairs"
	ExpenseUtilities      ExpenseCategory = "utilities"
	ExpenseSalary         ExpenseCategory = "salary"
	ExpenseSecurity       ExpenseCategory = "security"
	ExpenseCleaning       ExpenseCategory = "cleaning"
	ExpenseGardening      ExpenseCategory = "gardening"
	ExpenseEvents         ExpenseCategory = "events"
	ExpenseAdministrative ExpenseCategory = "administrative"
	ExpenseOther          ExpenseCategory = "other"
)

// ExpenseCategories lists the categories with their display names.
var ExpenseCategories = []struct {
	ID   ExpenseCategory
	Name string
}{
	{ExpenseMaintenance, "Maintenance"},
	{ExpenseRepairs, "Repairs"},
	{ExpenseUtilities, "Utilities"},
	{ExpenseSalary, "Salary"},
	{ExpenseSecurity, "Security"},
	{ExpenseCleaning, "Cleaning"},
	{ExpenseGardening, "Gardening"},
	{ExpenseEvents, "Events"},
	{ExpenseAdministrative, "Administrative"},
	{ExpenseOther, "Other"},
}

// Name returns the display name of the category.
func (c ExpenseCategory) Name() string {
	for _, known := range ExpenseCategories {
		if known.ID == c {
			return known.Name
		}
	}
	return string(c)
}

// Valid reports whether the category is known.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if known.ID == c {
			return true
		}
	}
	return false
}

// Expense is money the society spent.
type Expense struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Category        ExpenseCategory `json:"category"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	PaidTo          string          `json:"paidTo,omitempty"`
	ReceiptNumber   string          `json:"receiptNumber,omitempty"`
	PaymentMode     PaymentMode     `json:"paymentMode,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ReceiptImageURL string          `json:"receiptImageUrl,omitempty"`
	ReceiptImageID  string          `json:"receiptImageId,omitempty"`
	ReceiptFileName string          `json:"receiptFileName,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Validate checks the expense against the schema.
func (e Expense) Validate() error {
	if e.ID == "" {
		return NewValidationError("expense", "id", e.ID, "is required")
	}
	if e.Date.IsZero() {
		return NewValidationError("expense", "date", e.Date, "is required")
	}
	if !e.Category.Valid() {
		return NewValidationError("expense", "category", e.Category, "is not a known category")
	}
	if e.Description == "" {
		return NewValidationError("expense", "description", e.Description, "is required")
	}
	if !e.Amount.IsPositive() {
		return NewValidationError("expense", "amount", e.Amount, "must be positive")
	}
	if e.PaymentMode != "" && !e.PaymentMode.Valid() {
		return NewValidationError("expense", "paymentMode", e.PaymentMode, "must be cash, cheque, upi or bank_transfer")
	}
	return nil
}
