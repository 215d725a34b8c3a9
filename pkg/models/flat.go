package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OccupancyType tells who lives in a flat.
type OccupancyType string

const (
	OccupancyOwner  OccupancyType = "owner"
	OccupancyTenant OccupancyType = "tenant"
	OccupancyVacant OccupancyType = "vacant"
)

// Flat is a billable unit (apartment or shop) within the society.
type Flat struct {
	ID               string          `json:"id"`
	FlatNo           string          `json:"flatNo"`
	BuildingID       string          `json:"buildingId,omitempty"`
	FlatTypeID       string          `json:"flatTypeId,omitempty"`
	Area             decimal.Decimal `json:"area"` // square feet
	OwnerName        string          `json:"ownerName,omitempty"`
	OwnerPhone       string          `json:"ownerPhone,omitempty"`
	OwnerEmail       string          `json:"ownerEmail,omitempty"`
	TwoWheelerCount  int             `json:"twoWheelerCount"`
	FourWheelerCount int             `json:"fourWheelerCount"`
	OccupancyType    OccupancyType   `json:"occupancyType,omitempty"`
	IsActive         *bool           `json:"isActive,omitempty"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
}

// Active reports whether the flat is billable. Missing means active.
func (f Flat) Active() bool {
	return f.IsActive == nil || *f.IsActive
}

// Occupancy returns the occupancy type, treating a missing value as owner-occupied.
func (f Flat) Occupancy() OccupancyType {
	if f.OccupancyType == "" {
		return OccupancyOwner
	}
	return f.OccupancyType
}

// TenantOccupied reports whether the flat is let out.
func (f Flat) TenantOccupied() bool {
	return f.Occupancy() == OccupancyTenant
}

// Validate checks the flat against the schema.
func (f Flat) Validate() error {
	if f.ID == "" {
		return NewValidationError("flat", "id", f.ID, "is required")
	}
	if f.Area.IsNegative() {
		return NewValidationError("flat", "area", f.Area, "must not be negative")
	}
	if f.TwoWheelerCount < 0 {
		return NewValidationError("flat", "twoWheelerCount", f.TwoWheelerCount, "must not be negative")
	}
	if f.FourWheelerCount < 0 {
		return NewValidationError("flat", "fourWheelerCount", f.FourWheelerCount, "must not be negative")
	}
	switch f.Occupancy() {
	case OccupancyOwner, OccupancyTenant, OccupancyVacant:
	default:
		return NewValidationError("flat", "occupancyType", f.OccupancyType, "must be owner, tenant or vacant")
	}
	return nil
}

// FindFlat returns the flat with the given id, or nil.
func FindFlat(flats []Flat, id string) *Flat {
	for i := range flats {
		if flats[i].ID == id {
			return &flats[i]
		}
	}
	return nil
}
