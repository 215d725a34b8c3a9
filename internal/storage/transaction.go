package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"society/internal/logger"
	"society/pkg/models"
)

// Tx is the working set of a transaction over the bill and payment documents.
// Mutate Bills and Payments in place and mark what changed; unmarked
// collections are not written back.
type Tx struct {
	Bills    []models.Bill
	Payments []models.Payment

	billsChanged    bool
	paymentsChanged bool
}

// MarkBillsChanged schedules the bills document for writing on commit
func (tx *Tx) MarkBillsChanged() { tx.billsChanged = true }

// MarkPaymentsChanged schedules the payments document for writing on commit
func (tx *Tx) MarkPaymentsChanged() { tx.paymentsChanged = true }

// restoreTimeout bounds the compensating bills write. It runs detached from
// the caller's context, which is often the reason the payments write failed.
const restoreTimeout = 30 * time.Second

// TransactionManager runs fn against a consistent snapshot of bills and
// payments and writes back both documents or neither.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error
}

// DocumentTransactionManager serialises transactions within the process and
// commits with a compensating write: if the payments write fails after the
// bills write succeeded, the original bills document is restored.
type DocumentTransactionManager struct {
	store Store
	mu    sync.Mutex
	log   zerolog.Logger
}

// NewTransactionManager creates a transaction manager over store
func NewTransactionManager(store Store) *DocumentTransactionManager {
	return &DocumentTransactionManager{
		store: store,
		log:   logger.WithComponent("transaction"),
	}
}

func (m *DocumentTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	const op = "WithTransaction"

	m.mu.Lock()
	defer m.mu.Unlock()

	var bills []models.Bill
	var payments []models.Payment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bills, err = m.store.GetBills(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = m.store.GetPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: load: %w", op, err)
	}

	tx := &Tx{
		Bills:    cloneBills(bills),
		Payments: append([]models.Payment(nil), payments...),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	return m.commit(ctx, tx, bills)
}

func (m *DocumentTransactionManager) commit(ctx context.Context, tx *Tx, originalBills []models.Bill) error {
	const op = "commit"

	if tx.billsChanged {
		if err := m.store.SaveBills(ctx, tx.Bills); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if tx.paymentsChanged {
		if err := m.store.SavePayments(ctx, tx.Payments); err != nil {
			if !tx.billsChanged {
				return fmt.Errorf("%s: %w", op, err)
			}

			m.log.Warn().Err(err).Msg("Payments write failed, restoring bills")
			restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
			defer cancel()
			if rbErr := m.store.SaveBills(restoreCtx, originalBills); rbErr != nil {
				m.log.Error().Err(rbErr).Msg("Failed to restore bills after payments write failure")
				return fmt.Errorf("%s: %w: %w", op, ErrInconsistentWrite, errors.Join(err, rbErr))
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func cloneBills(bills []models.Bill) []models.Bill {
	out := make([]models.Bill, len(bills))
	for i, b := range bills {
		b.LineItems = append([]models.LineItem(nil), b.LineItems...)
		out[i] = b
	}
	return out
}
