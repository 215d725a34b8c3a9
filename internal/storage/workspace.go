package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"society/pkg/models"
)

// Workspace is a full in-memory snapshot of a society's documents.
type Workspace struct {
	Settings   models.Settings
	MasterData models.MasterData
	Flats      []models.Flat
	Bills      []models.Bill
	Payments   []models.Payment
	Expenses   []models.Expense
}

// LoadWorkspace reads every document concurrently
func LoadWorkspace(ctx context.Context, store Store) (*Workspace, error) {
	const op = "LoadWorkspace"

	ws := &Workspace{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ws.Settings, err = store.GetSettings(ctx)
		return err
	})
	g.Go(func() (err error) {
		ws.MasterData, err = store.GetMasterData(ctx)
		return err
	})
	g.Go(func() (err error) {
		ws.Flats, err = store.GetFlats(ctx)
		return err
	})
	g.Go(func() (err error) {
		ws.Bills, err = store.GetBills(ctx)
		return err
	})
	g.Go(func() (err error) {
		ws.Payments, err = store.GetPayments(ctx)
		return err
	})
	g.Go(func() (err error) {
		ws.Expenses, err = store.GetExpenses(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ws, nil
}

// FlatBills returns the bills of one flat
func (ws *Workspace) FlatBills(flatID string) []models.Bill {
	return BillsOfFlat(ws.Bills, flatID)
}

// FlatPayments returns the payments of one flat
func (ws *Workspace) FlatPayments(flatID string) []models.Payment {
	return PaymentsOfFlat(ws.Payments, flatID)
}

// BillsOfFlat filters bills by flat id
func BillsOfFlat(bills []models.Bill, flatID string) []models.Bill {
	var out []models.Bill
	for _, b := range bills {
		if b.FlatID == flatID {
			out = append(out, b)
		}
	}
	return out
}

// PaymentsOfFlat filters payments by flat id
func PaymentsOfFlat(payments []models.Payment, flatID string) []models.Payment {
	var out []models.Payment
	for _, p := range payments {
		if p.FlatID == flatID {
			out = append(out, p)
		}
	}
	return out
}
