package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how money was received or paid out.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentCheque       PaymentMode = "cheque"
	PaymentUPI          PaymentMode = "upi"
	PaymentBankTransfer PaymentMode = "bank_transfer"
)

// PaymentModes lists the modes in display order.
var PaymentModes = []PaymentMode{PaymentCash, PaymentCheque, PaymentUPI, PaymentBankTransfer}

// Valid reports whether the mode is one of the known values.
func (m PaymentMode) Valid() bool {
	for _, known := range PaymentModes {
		if m == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the mode.
func (m PaymentMode) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCheque:
		return "Cheque"
	case PaymentUPI:
		return "UPI"
	case PaymentBankTransfer:
		return "Bank Transfer"
	}
	return string(m)
}

// Payment is money received from a flat. A nil BillID marks an advance or
// unallocated payment.
type Payment struct {
	ID          string          `json:"id"`
	ReceiptNo   string          `json:"receiptNo"`
	FlatID      string          `json:"flatId"`
	BillID      *string         `json:"billId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode PaymentMode     `json:"paymentMode"`
	PaymentDate time.Time       `json:"paymentDate"`
	ReferenceNo string          `json:"referenceNo,omitempty"`
	ReceivedBy  string          `json:"receivedBy,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LinkedBill returns the bill id the payment was applied to, or "".
func (p Payment) LinkedBill() string {
	if p.BillID == nil {
		return ""
	}
	return *p.BillID
}

// Validate checks the payment against the schema.
func (p Payment) Validate() error {
	if p.ID == "" {
		return NewValidationError("payment", "id", p.ID, "is required")
	}
	if p.FlatID == "" {
		return NewValidationError("payment", "flatId", p.FlatID, "is required")
	}
	if !p.Amount.IsPositive() {
		return NewValidationError("payment", "amount", p.Amount, "must be positive")
	}
	if !p.PaymentMode.Valid() {
		return NewValidationError("payment", "paymentMode", p.PaymentMode, "must be cash, cheque, upi or bank_transfer")
	}
	if p.PaymentDate.IsZero() {
		return NewValidationError("payment", "paymentDate", p.PaymentDate, "is required")
	}
	return nil
}

// FindPayment returns the index of the payment with the given id, or -1.
func FindPayment(payments []Payment, id string) int {
	for i := range payments {
		if payments[i].ID == id {
			return i
		}
	}
	return -1
}
