package models

import "github.com/shopspring/decimal"

// CalculationType selects how a charge type turns into an amount.
type CalculationType string

const (
	CalculationFixed      CalculationType = "fixed"
	CalculationPerSqft    CalculationType = "per_sqft"
	CalculationPerVehicle CalculationType = "per_vehicle"
)

// Valid reports whether the calculation type is one of the known values.
func (c CalculationType) Valid() bool {
	switch c {
	case CalculationFixed, CalculationPerSqft, CalculationPerVehicle:
		return true
	}
	return false
}

// VehicleType selects which vehicle count a per-vehicle charge uses.
type VehicleType string

const (
	VehicleTwoWheeler  VehicleType = "2wheeler"
	VehicleFourWheeler VehicleType = "4wheeler"
)

// NOCChargeTypeID is the charge type id used for the Non-Occupancy Charge line item.
const NOCChargeTypeID = "noc"

// ChargeType is a reusable billing rule applied to every flat.
type ChargeType struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CalculationType CalculationType `json:"calculationType"`
	DefaultAmount   decimal.Decimal `json:"defaultAmount"`
	IsMonthly       *bool           `json:"isMonthly,omitempty"`
	IsActive        *bool           `json:"isActive,omitempty"`
	VehicleType     VehicleType     `json:"vehicleType,omitempty"`
}

// Active reports whether the charge type is enabled. Missing means enabled.
func (c ChargeType) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// Monthly reports whether the charge type is billed every month. Missing means monthly.
func (c ChargeType) Monthly() bool {
	return c.IsMonthly == nil || *c.IsMonthly
}

// Validate checks the charge type against the schema. Unknown calculation
// types pass so that newer charge types bill as nothing instead of blocking
// every flat; an empty one does not.
func (c ChargeType) Validate() error {
	if c.ID == "" {
		return NewValidationError("chargeType", "id", c.ID, "is required")
	}
	if c.Name == "" {
		return NewValidationError("chargeType", "name", c.Name, "is required")
	}
	if c.CalculationType == "" {
		return NewValidationError("chargeType", "calculationType", c.CalculationType, "is required")
	}
	if c.DefaultAmount.IsNegative() {
		return NewValidationError("chargeType", "defaultAmount", c.DefaultAmount, "must not be negative")
	}
	if c.CalculationType == CalculationPerVehicle {
		switch c.VehicleType {
		case VehicleTwoWheeler, VehicleFourWheeler:
		default:
			return NewValidationError("chargeType", "vehicleType", c.VehicleType, "must be 2wheeler or 4wheeler for per_vehicle charges")
		}
	}
	return nil
}

// Bool returns a pointer to b, for the optional flags on records.
func Bool(b bool) *bool {
	return &b
}
