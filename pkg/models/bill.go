package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
)

// Valid reports whether the status is one of the known values.
func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPartial, BillPaid:
		return true
	}
	return false
}

// ResolveStatus classifies a bill from the amount paid against its grand total.
// Nothing paid is pending, paying the grand total or more is paid, anything in
// between is partial.
func ResolveStatus(paidAmount, grandTotal decimal.Decimal) BillStatus {
	switch {
	case !paidAmount.IsPositive():
		return BillPending
	case paidAmount.GreaterThanOrEqual(grandTotal):
		return BillPaid
	default:
		return BillPartial
	}
}

// LineItem is one charge on a bill.
type LineItem struct {
	ChargeTypeID string          `json:"chargeTypeId"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
}

// Bill is one period's invoice for one flat.
type Bill struct {
	ID          string          `json:"id"`
	BillNo      string          `json:"billNo"`
	FlatID      string          `json:"flatId"`
	Month       int             `json:"month"` // 1-12
	Year        int             `json:"year"`
	LineItems   []LineItem      `json:"lineItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PreviousDue decimal.Decimal `json:"previousDue"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	GrandTotal  decimal.Decimal `json:"grandTotal"` // totalAmount + previousDue + interest + penalty
	Status      BillStatus      `json:"status"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	DueDate     time.Time       `json:"dueDate"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// Balance is the amount still owed on the bill.
func (b Bill) Balance() decimal.Decimal {
	return b.GrandTotal.Sub(b.PaidAmount)
}

// IsOverdue reports whether an unpaid bill is past its due date at now.
func (b Bill) IsOverdue(now time.Time) bool {
	return b.Status != BillPaid && b.DueDate.Before(now)
}

// ApplyPaid sets the paid amount and recomputes the status.
func (b *Bill) ApplyPaid(paidAmount decimal.Decimal) {
	b.PaidAmount = paidAmount
	b.Status = ResolveStatus(b.PaidAmount, b.GrandTotal)
}

// Validate checks the bill against the schema.
func (b Bill) Validate() error {
	if b.ID == "" {
		return NewValidationError("bill", "id", b.ID, "is required")
	}
	if b.FlatID == "" {
		return NewValidationError("bill", "flatId", b.FlatID, "is required")
	}
	if b.Month < 1 || b.Month > 12 {
		return NewValidationError("bill", "month", b.Month, "must be between 1 and 12")
	}
	if b.Year <= 0 {
		return NewValidationError("bill", "year", b.Year, "must be positive")
	}
	if !b.Status.Valid() {
		return NewValidationError("bill", "status", b.Status, "must be pending, partial or paid")
	}
	if b.PaidAmount.IsNegative() {
		return NewValidationError("bill", "paidAmount", b.PaidAmount, "must not be negative")
	}
	return nil
}

// FindBill returns the index of the bill with the given id, or -1.
func FindBill(bills []Bill, id string) int {
	for i := range bills {
		if bills[i].ID == id {
			return i
		}
	}
	return -1
}
