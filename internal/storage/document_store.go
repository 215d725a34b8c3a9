package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"society/internal/logger"
	"society/pkg/models"
)

// DocumentStore implements Store on top of a Backend.
type DocumentStore struct {
	backend Backend
	log     zerolog.Logger
}

// NewDocumentStore creates a typed store over backend
func NewDocumentStore(backend Backend) *DocumentStore {
	return &DocumentStore{
		backend: backend,
		log:     logger.WithComponent("storage"),
	}
}

func (s *DocumentStore) GetSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	found, err := s.read(ctx, "GetSettings", SheetSettings, &settings)
	if err != nil {
		return models.Settings{}, err
	}
	if !found {
		return models.DefaultSettings(), nil
	}
	if err := settings.Validate(); err != nil {
		return models.Settings{}, malformed("GetSettings", SheetSettings, err)
	}
	return settings.WithDefaults(), nil
}

func (s *DocumentStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return malformed("SaveSettings", SheetSettings, err)
	}
	return s.write(ctx, "SaveSettings", SheetSettings, settings)
}

func (s *DocumentStore) GetMasterData(ctx context.Context) (models.MasterData, error) {
	var masterData models.MasterData
	if _, err := s.read(ctx, "GetMasterData", SheetMasterData, &masterData); err != nil {
		return models.MasterData{}, err
	}
	if err := masterData.Validate(); err != nil {
		return models.MasterData{}, malformed("GetMasterData", SheetMasterData, err)
	}
	if err := uniqueIDs(masterData.ChargeTypes, func(c models.ChargeType) string { return c.ID }); err != nil {
		return models.MasterData{}, malformed("GetMasterData", SheetMasterData, err)
	}
	for _, ct := range masterData.ChargeTypes {
		if !ct.CalculationType.Valid() {
			s.log.Warn().
				Str("charge_type_id", ct.ID).
				Str("calculation_type", string(ct.CalculationType)).
				Msg("Unknown calculation type, charge will not be billed")
		}
	}
	return masterData, nil
}

func (s *DocumentStore) SaveMasterData(ctx context.Context, masterData models.MasterData) error {
	if err := masterData.Validate(); err != nil {
		return malformed("SaveMasterData", SheetMasterData, err)
	}
	return s.write(ctx, "SaveMasterData", SheetMasterData, masterData)
}

func (s *DocumentStore) GetFlats(ctx context.Context) ([]models.Flat, error) {
	return readCollection(ctx, s, "GetFlats", SheetFlats, models.Flat.Validate, func(f models.Flat) string { return f.ID })
}

func (s *DocumentStore) SaveFlats(ctx context.Context, flats []models.Flat) error {
	return writeCollection(ctx, s, "SaveFlats", SheetFlats, flats, models.Flat.Validate)
}

func (s *DocumentStore) GetBills(ctx context.Context) ([]models.Bill, error) {
	return readCollection(ctx, s, "GetBills", SheetBills, models.Bill.Validate, func(b models.Bill) string { return b.ID })
}

func (s *DocumentStore) SaveBills(ctx context.Context, bills []models.Bill) error {
	return writeCollection(ctx, s, "SaveBills", SheetBills, bills, models.Bill.Validate)
}

func (s *DocumentStore) GetPayments(ctx context.Context) ([]models.Payment, error) {
	return readCollection(ctx, s, "GetPayments", SheetPayments, models.Payment.Validate, func(p models.Payment) string { return p.ID })
}

func (s *DocumentStore) SavePayments(ctx context.Context, payments []models.Payment) error {
	return writeCollection(ctx, s, "SavePayments", SheetPayments, payments, models.Payment.Validate)
}

func (s *DocumentStore) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	return readCollection(ctx, s, "GetExpenses", SheetExpenses, models.Expense.Validate, func(e models.Expense) string { return e.ID })
}

func (s *DocumentStore) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	return writeCollection(ctx, s, "SaveExpenses", SheetExpenses, expenses, models.Expense.Validate)
}

// read decodes the sheet's document into v and reports whether a document was present
func (s *DocumentStore) read(ctx context.Context, op string, sheet Sheet, v interface{}) (bool, error) {
	data, err := s.backend.ReadDocument(ctx, string(sheet))
	if err != nil {
		return false, &DocumentError{Op: op, Sheet: sheet, Err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, malformed(op, sheet, err)
	}

	s.log.Debug().Str("sheet", string(sheet)).Int("bytes", len(data)).Msg("Decoded document")
	return true, nil
}

func (s *DocumentStore) write(ctx context.Context, op string, sheet Sheet, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &DocumentError{Op: op, Sheet: sheet, Err: fmt.Errorf("encode: %w", err)}
	}

	if err := s.backend.WriteDocument(ctx, string(sheet), data); err != nil {
		return &DocumentError{Op: op, Sheet: sheet, Err: err}
	}

	s.log.Debug().Str("sheet", string(sheet)).Int("bytes", len(data)).Msg("Saved document")
	return nil
}

func readCollection[T any](ctx context.Context, s *DocumentStore, op string, sheet Sheet, validate func(T) error, id func(T) string) ([]T, error) {
	var items []T
	if _, err := s.read(ctx, op, sheet, &items); err != nil {
		return nil, err
	}
	for i, item := range items {
		if err := validate(item); err != nil {
			return nil, malformed(op, sheet, fmt.Errorf("record %d: %w", i, err))
		}
	}
	if err := uniqueIDs(items, id); err != nil {
		return nil, malformed(op, sheet, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeCollection[T any](ctx context.Context, s *DocumentStore, op string, sheet Sheet, items []T, validate func(T) error) error {
	for i, item := range items {
		if err := validate(item); err != nil {
			return malformed(op, sheet, fmt.Errorf("record %d: %w", i, err))
		}
	}
	if items == nil {
		items = []T{}
	}
	return s.write(ctx, op, sheet, items)
}

func uniqueIDs[T any](items []T, id func(T) string) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := id(item)
		if seen[key] {
			return fmt.Errorf("duplicate id %q", key)
		}
		seen[key] = true
	}
	return nil
}

func malformed(op string, sheet Sheet, err error) error {
	return &DocumentError{Op: op, Sheet: sheet, Err: fmt.Errorf("%w: %w", ErrMalformedDocument, err)}
}
