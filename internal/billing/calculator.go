package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"society/pkg/models"
)

// Options carries the society settings the calculator depends on.
type Options struct {
	// TenantMultiplier scales per-vehicle charges of tenant-occupied flats.
	TenantMultiplier decimal.Decimal
	NOCEnabled       bool
	NOCAmount        decimal.Decimal
}

// OptionsFromSettings extracts calculator options from the society settings
func OptionsFromSettings(s models.Settings) Options {
	s = s.WithDefaults()
	return Options{
		TenantMultiplier: s.TenantParkingMultiplier,
		NOCEnabled:       s.NOCEnabled,
		NOCAmount:        s.NOCAmount,
	}
}

// Charges is the calculated content of one bill.
type Charges struct {
	LineItems []models.LineItem
	Total     decimal.Decimal
}

// FilterBillable returns the active, monthly charge types in their original order
func FilterBillable(chargeTypes []models.ChargeType) []models.ChargeType {
	var out []models.ChargeType
	for _, ct := range chargeTypes {
		if ct.Active() && ct.Monthly() {
			out = append(out, ct)
		}
	}
	return out
}

// Calculate computes the line items of one flat for one billing period.
// Line items follow the order of chargeTypes; zero amounts are left out.
func Calculate(flat models.Flat, chargeTypes []models.ChargeType, opts Options) Charges {
	one := decimal.NewFromInt(1)
	multiplier := one
	if flat.TenantOccupied() && opts.TenantMultiplier.IsPositive() {
		multiplier = opts.TenantMultiplier
	}

	charges := Charges{LineItems: []models.LineItem{}, Total: decimal.Zero}

	for _, ct := range chargeTypes {
		amount := decimal.Zero
		description := ct.Name

		switch ct.CalculationType {
		case models.CalculationFixed:
			amount = ct.DefaultAmount
		case models.CalculationPerSqft:
			amount = flat.Area.Mul(ct.DefaultAmount)
		case models.CalculationPerVehicle:
			count := vehicleCount(flat, ct.VehicleType)
			amount = decimal.NewFromInt(int64(count)).Mul(ct.DefaultAmount).Mul(multiplier)
			if count > 0 {
				description = fmt.Sprintf("%s (%d %s)", ct.Name, count, plural(count, "vehicle"))
				if multiplier.GreaterThan(one) {
					description += fmt.Sprintf(" [%sx tenant rate]", multiplier.String())
				}
			}
		}

		if !amount.IsPositive() {
			continue
		}
		charges.LineItems = append(charges.LineItems, models.LineItem{
			ChargeTypeID: ct.ID,
			Description:  description,
			Amount:       amount,
		})
		charges.Total = charges.Total.Add(amount)
	}

	if flat.TenantOccupied() && opts.NOCEnabled && opts.NOCAmount.IsPositive() {
		charges.LineItems = append(charges.LineItems, models.LineItem{
			ChargeTypeID: models.NOCChargeTypeID,
			Description:  "Non-Occupancy Charges (NOC)",
			Amount:       opts.NOCAmount,
		})
		charges.Total = charges.Total.Add(opts.NOCAmount)
	}

	return charges
}

func vehicleCount(flat models.Flat, vehicleType models.VehicleType) int {
	switch vehicleType {
	case models.VehicleTwoWheeler:
		return flat.TwoWheelerCount
	case models.VehicleFourWheeler:
		return flat.FourWheelerCount
	}
	return 0
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
