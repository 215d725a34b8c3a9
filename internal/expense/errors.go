package expense

import "errors"

var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrOutsideFinancialYear = errors.New("expense date must be within the current financial year")
	ErrInvalidCategory      = errors.New("invalid expense category")
	ErrMissingDescription   = errors.New("expense description is required")
	ErrInvalidAmount        = errors.New("expense amount must be positive")
	ErrInvalidPaymentMode   = errors.New("invalid payment mode")
)
