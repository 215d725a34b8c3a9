package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"society/internal/storage"
	"society/internal/storage/storagetest"
	"society/pkg/models"
)

var (
	createdAt = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	paidOn    = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testBills() []models.Bill {
	return []models.Bill{
		{ID: "b1", BillNo: "BILL-2024-03-0001", FlatID: "f1", Month: 3, Year: 2024, GrandTotal: d("3200"), PaidAmount: decimal.Zero, Status: models.BillPending},
		{ID: "b2", BillNo: "BILL-2024-03-0002", FlatID: "f2", Month: 3, Year: 2024, GrandTotal: d("2900"), PaidAmount: decimal.Zero, Status: models.BillPending},
	}
}

func withClock(s *Service) *Service {
	s.now = func() time.Time { return createdAt }
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("pay-%d", n)
	}
	return s
}

func newTestService(t *testing.T) (*Service, *storage.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	require.NoError(t, store.SaveFlats(ctx, []models.Flat{{ID: "f1", FlatNo: "A-101"}, {ID: "f2", FlatNo: "A-102"}}))
	require.NoError(t, store.SaveBills(ctx, testBills()))

	return withClock(NewService(store, storage.NewTransactionManager(store))), store
}

func getBill(t *testing.T, store storage.Store, id string) models.Bill {
	t.Helper()
	bills, err := store.GetBills(context.Background())
	require.NoError(t, err)
	idx := models.FindBill(bills, id)
	require.GreaterOrEqual(t, idx, 0)
	return bills[idx]
}

func TestService_RecordUpdatesBill(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	p, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("1200"), Mode: models.PaymentUPI, Date: paidOn, ReferenceNo: "UTR123"})
	require.NoError(t, err)

	assert.Equal(t, "pay-1", p.ID)
	assert.Equal(t, "RCP-2024-03-0001", p.ReceiptNo)
	assert.Equal(t, "b1", p.LinkedBill())
	assert.Equal(t, createdAt, p.CreatedAt)

	bill := getBill(t, store, "b1")
	assert.Equal(t, models.BillPartial, bill.Status)
	assert.Equal(t, "1200", bill.PaidAmount.String())

	p2, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("2000"), Mode: models.PaymentCash, Date: paidOn})
	require.NoError(t, err)
	assert.Equal(t, "RCP-2024-03-0002", p2.ReceiptNo)

	bill = getBill(t, store, "b1")
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.True(t, bill.Balance().IsZero())

	payments, err := store.GetPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestService_RecordOverpaymentAndAdvance(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.Record(ctx, Input{FlatID: "f2", BillID: "b2", Amount: d("3000"), Mode: models.PaymentCheque, Date: paidOn})
	require.NoError(t, err)

	bill := getBill(t, store, "b2")
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.Equal(t, "-100", bill.Balance().String())

	advance, err := svc.Record(ctx, Input{FlatID: "f2", Amount: d("500"), Mode: models.PaymentBankTransfer, Date: paidOn})
	require.NoError(t, err)
	assert.Nil(t, advance.BillID)
	assert.Equal(t, "RCP-2024-03-0002", advance.ReceiptNo)
}

func TestService_RecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "missing flat", input: Input{Amount: d("10"), Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrFlatNotFound},
		{name: "unknown flat", input: Input{FlatID: "f9", Amount: d("10"), Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrFlatNotFound},
		{name: "zero amount", input: Input{FlatID: "f1", Amount: decimal.Zero, Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrInvalidAmount},
		{name: "negative amount", input: Input{FlatID: "f1", Amount: d("-5"), Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrInvalidAmount},
		{name: "bad mode", input: Input{FlatID: "f1", Amount: d("10"), Mode: "barter", Date: paidOn}, wantErr: ErrInvalidMode},
		{name: "missing date", input: Input{FlatID: "f1", Amount: d("10"), Mode: models.PaymentCash}, wantErr: ErrMissingDate},
		{name: "unknown bill", input: Input{FlatID: "f1", BillID: "b9", Amount: d("10"), Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrBillNotFound},
		{name: "bill of another flat", input: Input{FlatID: "f1", BillID: "b2", Amount: d("10"), Mode: models.PaymentCash, Date: paidOn}, wantErr: ErrBillFlatMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, store := newTestService(t)

			_, err := svc.Record(ctx, tt.input)
			require.ErrorIs(t, err, tt.wantErr)

			payments, err := store.GetPayments(ctx)
			require.NoError(t, err)
			assert.Empty(t, payments)
			assert.Equal(t, models.BillPending, getBill(t, store, "b1").Status)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	first, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("3200"), Mode: models.PaymentCash, Date: paidOn})
	require.NoError(t, err)
	second, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("500"), Mode: models.PaymentCash, Date: paidOn})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, second.ID)
	require.NoError(t, err)
	bill := getBill(t, store, "b1")
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.Equal(t, "3200", bill.PaidAmount.String())

	deleted, err := svc.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReceiptNo, deleted.ReceiptNo)
	bill = getBill(t, store, "b1")
	assert.Equal(t, models.BillPending, bill.Status)
	assert.True(t, bill.PaidAmount.IsZero())

	_, err = svc.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestService_DeleteClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	p, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("1000"), Mode: models.PaymentCash, Date: paidOn})
	require.NoError(t, err)

	bills := testBills()
	bills[0].ApplyPaid(d("300"))
	require.NoError(t, store.SaveBills(ctx, bills))

	_, err = svc.Delete(ctx, p.ID)
	require.NoError(t, err)

	bill := getBill(t, store, "b1")
	assert.True(t, bill.PaidAmount.IsZero())
	assert.Equal(t, models.BillPending, bill.Status)
}

func TestService_DeleteOrphanedPayment(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	gone := "b-deleted"

	require.NoError(t, store.SavePayments(ctx, []models.Payment{{
		ID: "p1", ReceiptNo: "RCP-2024-03-0001", FlatID: "f1", BillID: &gone,
		Amount: d("100"), PaymentMode: models.PaymentCash, PaymentDate: paidOn,
	}}))

	_, err := svc.Delete(ctx, "p1")
	require.NoError(t, err)

	payments, err := store.GetPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestService_RecordRollsBackBillOnPaymentWriteFailure(t *testing.T) {
	ctx := context.Background()
	errWrite := errors.New("sheets unavailable")

	store := new(storagetest.MockStore)
	store.On("GetFlats", mock.Anything).Return([]models.Flat{{ID: "f1"}}, nil)
	store.On("GetSettings", mock.Anything).Return(models.DefaultSettings(), nil)
	store.On("GetBills", mock.Anything).Return(testBills(), nil)
	store.On("GetPayments", mock.Anything).Return([]models.Payment{}, nil)
	store.On("SaveBills", mock.Anything, mock.MatchedBy(func(bills []models.Bill) bool {
		return bills[0].Status == models.BillPartial
	})).Return(nil).Once()
	store.On("SavePayments", mock.Anything, mock.Anything).Return(errWrite).Once()
	store.On("SaveBills", mock.Anything, mock.MatchedBy(func(bills []models.Bill) bool {
		return bills[0].Status == models.BillPending && bills[0].PaidAmount.IsZero()
	})).Return(nil).Once()

	svc := withClock(NewService(store, storage.NewTransactionManager(store)))
	_, err := svc.Record(ctx, Input{FlatID: "f1", BillID: "b1", Amount: d("100"), Mode: models.PaymentCash, Date: paidOn})

	require.ErrorIs(t, err, errWrite)
	store.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for i, day := range []int{5, 20, 12} {
		_, err := svc.Record(ctx, Input{
			FlatID: "f1",
			Amount: d("100"),
			Mode:   models.PaymentModes[i%len(models.PaymentModes)],
			Date:   time.Date(2024, 3, day, 15, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, Input{FlatID: "f2", Amount: d("50"), Mode: models.PaymentCash, Date: paidOn})
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{FlatID: "f1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 20, all[0].PaymentDate.Day())
	assert.Equal(t, 5, all[2].PaymentDate.Day())

	ranged, err := svc.List(ctx, Filter{
		From: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2, "bounds compare calendar days")
}
