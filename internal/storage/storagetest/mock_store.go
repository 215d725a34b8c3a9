// Package storagetest provides test doubles for the storage package.
package storagetest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"society/pkg/models"
)

// MockStore is a testify mock implementing storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetSettings(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *MockStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockStore) GetMasterData(ctx context.Context) (models.MasterData, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.MasterData), args.Error(1)
}

func (m *MockStore) SaveMasterData(ctx context.Context, masterData models.MasterData) error {
	return m.Called(ctx, masterData).Error(0)
}

func (m *MockStore) GetFlats(ctx context.Context) ([]models.Flat, error) {
	args := m.Called(ctx)
	flats, _ := args.Get(0).([]models.Flat)
	return flats, args.Error(1)
}

func (m *MockStore) SaveFlats(ctx context.Context, flats []models.Flat) error {
	return m.Called(ctx, flats).Error(0)
}

func (m *MockStore) GetBills(ctx context.Context) ([]models.Bill, error) {
	args := m.Called(ctx)
	bills, _ := args.Get(0).([]models.Bill)
	return bills, args.Error(1)
}

func (m *MockStore) SaveBills(ctx context.Context, bills []models.Bill) error {
	return m.Called(ctx, bills).Error(0)
}

func (m *MockStore) GetPayments(ctx context.Context) ([]models.Payment, error) {
	args := m.Called(ctx)
	payments, _ := args.Get(0).([]models.Payment)
	return payments, args.Error(1)
}

func (m *MockStore) SavePayments(ctx context.Context, payments []models.Payment) error {
	return m.Called(ctx, payments).Error(0)
}

func (m *MockStore) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	args := m.Called(ctx)
	expenses, _ := args.Get(0).([]models.Expense)
	return expenses, args.Error(1)
}

func (m *MockStore) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	return m.Called(ctx, expenses).Error(0)
}
