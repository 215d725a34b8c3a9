// Package storage persists a society's collections as whole JSON documents.
//
// Every collection is read and written as one document: there are no partial
// updates. Documents are decoded into typed records and validated on the way
// in, so a malformed spreadsheet is rejected instead of being silently
// defaulted.
package storage

import (
	"context"

	"society/pkg/models"
)

// Sheet names one stored document.
type Sheet string

const (
	SheetSettings   Sheet = "Settings"
	SheetMasterData Sheet = "MasterData"
	SheetUsers      Sheet = "Users"
	SheetFlats      Sheet = "Flats"
	SheetBills      Sheet = "Bills"
	SheetPayments   Sheet = "Payments"
	SheetExpenses   Sheet = "Expenses"
)

// AllSheets lists every document sheet of a society spreadsheet.
var AllSheets = []Sheet{
	SheetSettings,
	SheetMasterData,
	SheetUsers,
	SheetFlats,
	SheetBills,
	SheetPayments,
	SheetExpenses,
}

// Backend reads and writes raw documents. A nil document means the sheet is empty.
type Backend interface {
	ReadDocument(ctx context.Context, sheet string) ([]byte, error)
	WriteDocument(ctx context.Context, sheet string, data []byte) error
}

// Store is the typed persistence collaborator used by every service.
type Store interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	GetMasterData(ctx context.Context) (models.MasterData, error)
	SaveMasterData(ctx context.Context, masterData models.MasterData) error

	GetFlats(ctx context.Context) ([]models.Flat, error)
	SaveFlats(ctx context.Context, flats []models.Flat) error

	GetBills(ctx context.Context) ([]models.Bill, error)
	SaveBills(ctx context.Context, bills []models.Bill) error

	GetPayments(ctx context.Context) ([]models.Payment, error)
	SavePayments(ctx context.Context, payments []models.Payment) error

	GetExpenses(ctx context.Context) ([]models.Expense, error)
	SaveExpenses(ctx context.Context, expenses []models.Expense) error
}
