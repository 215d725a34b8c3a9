package payment

import "errors"

var (
	ErrFlatNotFound     = errors.New("flat not found")
	ErrBillNotFound     = errors.New("bill not found")
	ErrBillFlatMismatch = errors.New("bill belongs to a different flat")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrInvalidMode      = errors.New("invalid payment mode")
	ErrMissingDate      = errors.New("payment date is required")
)
