package models

import "github.com/shopspring/decimal"

// ArrearsMode controls how a new bill carries forward unpaid amounts.
type ArrearsMode string

const (
	// ArrearsAllUnpaid sums the balance of every unpaid or partial bill of the flat.
	ArrearsAllUnpaid ArrearsMode = "all_unpaid"
	// ArrearsLatestBill carries only the balance of the flat's most recent bill,
	// which already includes the arrears brought into it.
	ArrearsLatestBill ArrearsMode = "latest_bill"
)

const (
	DefaultBillingDay    = 1
	DefaultDueDays       = 15
	DefaultBillPrefix    = "BILL"
	DefaultReceiptPrefix = "RCP"
)

// Settings is the society-wide configuration document.
type Settings struct {
	SocietyName             string          `json:"societyName"`
	Address                 string          `json:"address,omitempty"`
	RegistrationNo          string          `json:"registrationNo,omitempty"`
	Phone                   string          `json:"phone,omitempty"`
	Email                   string          `json:"email,omitempty"`
	BillingDay              int             `json:"billingDay"`
	DueDays                 int             `json:"dueDays"`
	LateFeePercent          decimal.Decimal `json:"lateFeePercent"`
	TenantParkingMultiplier decimal.Decimal `json:"tenantParkingMultiplier"`
	NOCEnabled              bool            `json:"nocEnabled"`
	NOCAmount               decimal.Decimal `json:"nocAmount"`
	BillPrefix              string          `json:"billPrefix,omitempty"`
	ReceiptPrefix           string          `json:"receiptPrefix,omitempty"`
	ArrearsMode             ArrearsMode     `json:"arrearsMode,omitempty"`
}

// DefaultSettings returns the settings a new society starts with.
func DefaultSettings() Settings {
	return Settings{
		SocietyName:             "My Society",
		BillingDay:              DefaultBillingDay,
		DueDays:                 DefaultDueDays,
		LateFeePercent:          decimal.NewFromInt(2),
		TenantParkingMultiplier: decimal.NewFromInt(1),
		BillPrefix:              DefaultBillPrefix,
		ReceiptPrefix:           DefaultReceiptPrefix,
		ArrearsMode:             ArrearsAllUnpaid,
	}
}

// WithDefaults fills unset values the way the portal does when reading settings.
func (s Settings) WithDefaults() Settings {
	if s.BillingDay <= 0 {
		s.BillingDay = DefaultBillingDay
	}
	if s.DueDays <= 0 {
		s.DueDays = DefaultDueDays
	}
	if !s.TenantParkingMultiplier.IsPositive() {
		s.TenantParkingMultiplier = decimal.NewFromInt(1)
	}
	if s.BillPrefix == "" {
		s.BillPrefix = DefaultBillPrefix
	}
	if s.ReceiptPrefix == "" {
		s.ReceiptPrefix = DefaultReceiptPrefix
	}
	if s.ArrearsMode == "" {
		s.ArrearsMode = ArrearsAllUnpaid
	}
	return s
}

// Validate checks the settings against the schema.
func (s Settings) Validate() error {
	if s.BillingDay < 0 || s.BillingDay > 31 {
		return NewValidationError("settings", "billingDay", s.BillingDay, "must be between 1 and 31")
	}
	if s.DueDays < 0 {
		return NewValidationError("settings", "dueDays", s.DueDays, "must not be negative")
	}
	if s.NOCAmount.IsNegative() {
		return NewValidationError("settings", "nocAmount", s.NOCAmount, "must not be negative")
	}
	if s.TenantParkingMultiplier.IsNegative() {
		return NewValidationError("settings", "tenantParkingMultiplier", s.TenantParkingMultiplier, "must not be negative")
	}
	switch s.ArrearsMode {
	case "", ArrearsAllUnpaid, ArrearsLatestBill:
	default:
		return NewValidationError("settings", "arrearsMode", s.ArrearsMode, "must be all_unpaid or latest_bill")
	}
	return nil
}
