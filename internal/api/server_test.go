package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"society/internal/billing"
	"society/internal/expense"
	"society/internal/ledger"
	"society/internal/payment"
	"society/internal/storage"
	"society/pkg/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	require.NoError(t, store.SaveSettings(ctx, models.DefaultSettings()))
	require.NoError(t, store.SaveMasterData(ctx, models.DefaultMasterData()))
	require.NoError(t, store.SaveFlats(ctx, []models.Flat{
		{ID: "f1", FlatNo: "A-101", Area: decimal.NewFromInt(750), FourWheelerCount: 1},
		{ID: "f2", FlatNo: "A-102", Area: decimal.NewFromInt(450)},
	}))

	txm := storage.NewTransactionManager(store)
	return NewApp(Services{
		Store:    store,
		Bills:    billing.NewGenerator(store, txm),
		Payments: payment.NewService(store, txm),
		Expenses: expense.NewService(store, nil),
	}, 5*time.Second)
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestBillAndPaymentFlow(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/bills/generate", fiber.Map{"month": 3, "year": 2024})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var gen struct {
		Created []models.Bill `json:"created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &gen))
	require.Len(t, gen.Created, 2)
	bill := gen.Created[0]
	assert.Equal(t, "BILL-2024-03-0001", bill.BillNo)

	status, env = do(t, app, http.MethodPost, "/api/bills/generate", fiber.Map{"month": 3, "year": 2024})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusConflict, env.Code)

	status, env = do(t, app, http.MethodGet, "/api/bills?month=3&year=2024&flatId=f1", nil)
	require.Equal(t, http.StatusOK, status)
	var bills []models.Bill
	require.NoError(t, json.Unmarshal(env.Data, &bills))
	assert.Len(t, bills, 1)

	status, env = do(t, app, http.MethodPost, "/api/payments", fiber.Map{
		"flatId": "f1", "billId": bill.ID, "amount": 1000, "paymentMode": "upi", "paymentDate": "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var p models.Payment
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "RCP-2024-03-0001", p.ReceiptNo)

	status, _ = do(t, app, http.MethodPost, "/api/payments", fiber.Map{
		"flatId": "f1", "amount": 0, "paymentMode": "cash", "paymentDate": "2024-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/payments", fiber.Map{
		"flatId": "f1", "amount": 10, "paymentMode": "cash", "paymentDate": "10/03/2024",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/api/bills/"+bill.ID, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = do(t, app, http.MethodGet, "/api/flats/f1/ledger", nil)
	require.Equal(t, http.StatusOK, status)
	var l ledger.Ledger
	require.NoError(t, json.Unmarshal(env.Data, &l))
	assert.Len(t, l.Entries, 2)
	assert.True(t, bill.GrandTotal.Sub(decimal.NewFromInt(1000)).Equal(l.Balance))

	status, _ = do(t, app, http.MethodDelete, "/api/payments/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, "/api/payments/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/bills/"+bill.ID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestReportRoutes(t *testing.T) {
	app := newTestApp(t)
	status, _ := do(t, app, http.MethodPost, "/api/bills/generate", fiber.Map{"month": 3, "year": 2024})
	require.Equal(t, http.StatusCreated, status)

	for _, path := range []string{
		"/api/reports/outstanding",
		"/api/reports/collection?from=2024-03-01&to=2024-03-31",
		"/api/reports/fee-position?asOf=2024-03-31",
		"/api/reports/income-expense?fy=2023",
		"/api/reports/dashboard",
	} {
		status, env := do(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.True(t, env.Success, path)
	}

	status, _ = do(t, app, http.MethodGet, "/api/reports/collection", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/flats/nope/ledger", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/bills?month=march", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExpenseRoutes(t *testing.T) {
	app := newTestApp(t)
	today := time.Now().UTC().Format("2006-01-02")

	status, env := do(t, app, http.MethodPost, "/api/expenses", fiber.Map{
		"date": today, "category": "security", "description": "Guards", "amount": 8000,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var e models.Expense
	require.NoError(t, json.Unmarshal(env.Data, &e))

	status, _ = do(t, app, http.MethodPut, "/api/expenses/"+e.ID, fiber.Map{
		"date": today, "category": "security", "description": "Guards (Nov)", "amount": 8500,
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodPost, "/api/expenses", fiber.Map{
		"date": today, "category": "travel", "description": "Trip", "amount": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/api/expenses?category=security", nil)
	require.Equal(t, http.StatusOK, status)
	var expenses []models.Expense
	require.NoError(t, json.Unmarshal(env.Data, &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, "Guards (Nov)", expenses[0].Description)

	status, _ = do(t, app, http.MethodDelete, "/api/expenses/"+e.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, http.MethodDelete, "/api/expenses/"+e.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("Generate: %w", billing.ErrBillsExist), http.StatusConflict},
		{fmt.Errorf("Record: %w", payment.ErrInvalidAmount), http.StatusBadRequest},
		{fmt.Errorf("Delete: %w", payment.ErrPaymentNotFound), http.StatusNotFound},
		{fmt.Errorf("GetBills: %w", storage.ErrMalformedDocument), http.StatusInternalServerError},
		{fiber.NewError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-10T05:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Hour())

	_, err = ParseDate("10/03/2024")
	assert.Error(t, err)
}
