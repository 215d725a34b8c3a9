package models

import "github.com/shopspring/decimal"

// Building groups flats for reporting.
type Building struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalFloors int    `json:"totalFloors"`
	Address     string `json:"address,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// Active reports whether the building is enabled. Missing means enabled.
func (b Building) Active() bool {
	return b.IsActive == nil || *b.IsActive
}

// FlatType is a flat template such as "2 BHK".
type FlatType struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DefaultArea decimal.Decimal `json:"defaultArea"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// MasterData is the single document holding buildings, flat types and charge types.
type MasterData struct {
	Buildings   []Building   `json:"buildings"`
	FlatTypes   []FlatType   `json:"flatTypes"`
	ChargeTypes []ChargeType `json:"chargeTypes"`
}

// Validate checks every nested record.
func (m MasterData) Validate() error {
	for _, b := range m.Buildings {
		if b.ID == "" {
			return NewValidationError("building", "id", b.ID, "is required")
		}
		if b.Name == "" {
			return NewValidationError("building", "name", b.Name, "is required")
		}
	}
	for _, ft := range m.FlatTypes {
		if ft.ID == "" {
			return NewValidationError("flatType", "id", ft.ID, "is required")
		}
	}
	for _, ct := range m.ChargeTypes {
		if err := ct.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindBuilding returns the building with the given id, or nil.
func (m MasterData) FindBuilding(id string) *Building {
	for i := range m.Buildings {
		if m.Buildings[i].ID == id {
			return &m.Buildings[i]
		}
	}
	return nil
}

// DefaultMasterData returns the flat and charge types a new society starts with.
func DefaultMasterData() MasterData {
	return MasterData{
		Buildings: []Building{},
		FlatTypes: []FlatType{
			{ID: "ft-1", Name: "1 BHK", DefaultArea: decimal.NewFromInt(450), IsActive: Bool(true)},
			{ID: "ft-2", Name: "2 BHK", DefaultArea: decimal.NewFromInt(750), IsActive: Bool(true)},
			{ID: "ft-3", Name: "3 BHK", DefaultArea: decimal.NewFromInt(1100), IsActive: Bool(true)},
			{ID: "ft-4", Name: "Shop", DefaultArea: decimal.NewFromInt(200), IsActive: Bool(true)},
		},
		ChargeTypes: []ChargeType{
			{ID: "ct-1", Name: "Maintenance", CalculationType: CalculationPerSqft, DefaultAmount: decimal.NewFromInt(3), IsMonthly: Bool(true), IsActive: Bool(true)},
			{ID: "ct-2", Name: "Sinking Fund", CalculationType: CalculationPerSqft, DefaultAmount: decimal.RequireFromString("0.5"), IsMonthly: Bool(true), IsActive: Bool(true)},
			{ID: "ct-3", Name: "Water Charges", CalculationType: CalculationFixed, DefaultAmount: decimal.NewFromInt(200), IsMonthly: Bool(true), IsActive: Bool(true)},
			{ID: "ct-4", Name: "Parking - 2 Wheeler", CalculationType: CalculationPerVehicle, DefaultAmount: decimal.NewFromInt(100), IsMonthly: Bool(true), IsActive: Bool(true), VehicleType: VehicleTwoWheeler},
			{ID: "ct-5", Name: "Parking - 4 Wheeler", CalculationType: CalculationPerVehicle, DefaultAmount: decimal.NewFromInt(500), IsMonthly: Bool(true), IsActive: Bool(true), VehicleType: VehicleFourWheeler},
		},
	}
}
