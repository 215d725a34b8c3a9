package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"society/internal/reports"
	"society/internal/storage"
	"society/pkg/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func workspace() *storage.Workspace {
	b1, b3 := "b1", "b3"
	return &storage.Workspace{
		Settings: models.DefaultSettings(),
		MasterData: models.MasterData{
			Buildings: []models.Building{{ID: "bA", Name: "Wing A"}, {ID: "bOld", Name: "Old Wing", IsActive: models.Bool(false)}},
			ChargeTypes: []models.ChargeType{
				{ID: "ct-1", Name: "Maintenance", CalculationType: models.CalculationPerSqft, DefaultAmount: d("3")},
				{ID: "ct-3", Name: "Water Charges", CalculationType: models.CalculationFixed, DefaultAmount: d("200")},
				{ID: "ct-9", Name: "Retired", CalculationType: models.CalculationFixed, IsActive: models.Bool(false)},
			},
		},
		Flats: []models.Flat{
			{ID: "f1", FlatNo: "A-110", BuildingID: "bA", OwnerName: "Rao"},
			{ID: "f2", FlatNo: "A-102", BuildingID: "bA", OwnerName: "Iyer"},
			{ID: "f3", FlatNo: "S-1", OwnerName: "Shah"},
			{ID: "f4", FlatNo: "B-1", BuildingID: "bOld", IsActive: models.Bool(false)},
			{ID: "f5", FlatNo: "A-103", BuildingID: "bA"},
		},
		Bills: []models.Bill{
			{
				ID: "b1", BillNo: "BILL-2024-03-0001", FlatID: "f1", Month: 3, Year: 2024,
				LineItems: []models.LineItem{
					{ChargeTypeID: "ct-1", Description: "Maintenance", Amount: d("3000")},
					{ChargeTypeID: "ct-3", Description: "Water Charges", Amount: d("200")},
					{ChargeTypeID: "ct-9", Description: "Retired", Amount: d("50")},
				},
				TotalAmount: d("3250"), GrandTotal: d("3250"), PaidAmount: d("1000"), Status: models.BillPartial,
				DueDate: date(2024, 3, 16), GeneratedAt: date(2024, 3, 1),
			},
			{
				ID: "b2", BillNo: "BILL-2024-04-0001", FlatID: "f1", Month: 4, Year: 2024,
				LineItems:   []models.LineItem{{ChargeTypeID: "ct-1", Description: "Maintenance", Amount: d("3000")}},
				TotalAmount: d("3000"), PreviousDue: d("2250"), GrandTotal: d("5250"), PaidAmount: decimal.Zero, Status: models.BillPending,
				DueDate: date(2024, 4, 16), GeneratedAt: date(2024, 4, 1),
			},
			{
				ID: "b3", BillNo: "BILL-2024-03-0002", FlatID: "f2", Month: 3, Year: 2024,
				LineItems:   []models.LineItem{{ChargeTypeID: "ct-3", Description: "Water Charges", Amount: d("200")}},
				TotalAmount: d("200"), GrandTotal: d("200"), PaidAmount: d("200"), Status: models.BillPaid,
				DueDate: date(2024, 3, 16), GeneratedAt: date(2024, 3, 1),
			},
			{
				ID: "b4", BillNo: "BILL-2024-04-0002", FlatID: "f3", Month: 4, Year: 2024,
				LineItems:   []models.LineItem{{ChargeTypeID: "ct-3", Description: "Water Charges", Amount: d("200")}},
				TotalAmount: d("200"), GrandTotal: d("200"), PaidAmount: decimal.Zero, Status: models.BillPending,
				DueDate: date(2024, 4, 30), GeneratedAt: date(2024, 4, 1),
			},
		},
		Payments: []models.Payment{
			{ID: "p1", ReceiptNo: "RCP-2024-03-0001", FlatID: "f1", BillID: &b1, Amount: d("1000"), PaymentMode: models.PaymentUPI, PaymentDate: date(2024, 3, 10)},
			{ID: "p2", ReceiptNo: "RCP-2024-03-0002", FlatID: "f2", BillID: &b3, Amount: d("200"), PaymentMode: models.PaymentCash, PaymentDate: time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)},
			{ID: "p3", ReceiptNo: "RCP-2024-04-0001", FlatID: "f3", Amount: d("500"), PaymentMode: models.PaymentCash, PaymentDate: date(2024, 4, 5)},
		},
		Expenses: []models.Expense{
			{ID: "e1", Date: date(2024, 5, 2), Category: models.ExpenseSecurity, Description: "Guards", Amount: d("8000")},
			{ID: "e2", Date: date(2024, 4, 3), Category: models.ExpenseUtilities, Description: "Electricity", Amount: d("1200")},
			{ID: "e3", Date: date(2024, 6, 1), Category: models.ExpenseUtilities, Description: "Water", Amount: d("300")},
			{ID: "e4", Date: date(2024, 3, 30), Category: models.ExpenseRepairs, Description: "Last year", Amount: d("999")},
		},
	}
}

func TestOutstanding(t *testing.T) {
	report := reports.Outstanding(workspace(), date(2024, 4, 20))

	require.Len(t, report.Rows, 3, "inactive and never-billed flats are left out")

	assert.Equal(t, "A-110", report.Rows[0].FlatNo)
	assert.Equal(t, "8500", report.Rows[0].TotalBilled.String())
	assert.Equal(t, "1000", report.Rows[0].TotalPaid.String())
	assert.Equal(t, "7500", report.Rows[0].Outstanding.String())
	assert.Equal(t, "7500", report.Rows[0].Overdue.String())

	assert.Equal(t, "A-102", report.Rows[1].FlatNo)
	assert.True(t, report.Rows[1].Outstanding.IsZero())

	assert.Equal(t, "S-1", report.Rows[2].FlatNo)
	assert.Equal(t, "-300", report.Rows[2].Outstanding.String())
	assert.True(t, report.Rows[2].Overdue.IsZero(), "not yet due")

	assert.Equal(t, "7200", report.TotalOutstanding.String())
	assert.Equal(t, "7500", report.TotalOverdue.String())
	assert.Equal(t, 1, report.FlatsWithOutstanding)
}

func TestCollection(t *testing.T) {
	report := reports.Collection(workspace(), date(2024, 3, 1), date(2024, 3, 31))

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "RCP-2024-03-0002", report.Rows[0].ReceiptNo)
	assert.Equal(t, "A-102", report.Rows[0].FlatNo)
	assert.Equal(t, "RCP-2024-03-0001", report.Rows[1].ReceiptNo)
	assert.Equal(t, "1200", report.GrandTotal.String())

	require.Len(t, report.TotalsByMode, len(models.PaymentModes))
	byMode := map[models.PaymentMode]string{}
	for _, m := range report.TotalsByMode {
		byMode[m.Mode] = m.Amount.String()
	}
	assert.Equal(t, "200", byMode[models.PaymentCash])
	assert.Equal(t, "1000", byMode[models.PaymentUPI])
	assert.Equal(t, "0", byMode[models.PaymentCheque])
}

func TestFeePosition(t *testing.T) {
	report := reports.FeePosition(workspace(), date(2024, 3, 31), "")

	require.Len(t, report.Columns, 2)
	assert.Equal(t, "Maintenance", report.Columns[0].Name)
	assert.Equal(t, 23, report.AsOf.Hour())

	require.Len(t, report.Groups, 2)
	wing := report.Groups[0]
	assert.Equal(t, "Wing A", wing.Name)
	require.Len(t, wing.Rows, 3)
	assert.Equal(t, []string{"A-102", "A-103", "A-110"}, []string{wing.Rows[0].FlatNo, wing.Rows[1].FlatNo, wing.Rows[2].FlatNo})
	assert.Equal(t, 3, wing.Rows[2].SrNo)

	f1 := wing.Rows[2]
	assert.Equal(t, "3000", f1.Charges[0].String(), "April bill is after the as-of date")
	assert.Equal(t, "200", f1.Charges[1].String())
	assert.Equal(t, "3250", f1.TotalCharges.String(), "inactive charge types still count in the total")
	assert.True(t, f1.PreviousBalance.IsZero())
	assert.Equal(t, "2250", f1.Balance.String())

	f2 := wing.Rows[0]
	assert.True(t, f2.Balance.IsZero(), "payment late on the as-of day is included")

	assert.Equal(t, reports.UnassignedBuilding, report.Groups[1].Name)
	assert.Equal(t, "3450", report.Totals.TotalCharges.String())
	assert.Equal(t, "2250", report.Totals.Balance.String())
	assert.Equal(t, "3450", wing.Subtotal.TotalCharges.String())
}

func TestFeePosition_BuildingFilterAndPreviousBalance(t *testing.T) {
	report := reports.FeePosition(workspace(), date(2024, 4, 30), "bA")

	require.Len(t, report.Groups, 1)
	f1 := report.Groups[0].Rows[2]
	assert.Equal(t, "A-110", f1.FlatNo)
	assert.Equal(t, "6000", f1.Charges[0].String())
	assert.Equal(t, "2250", f1.PreviousBalance.String())
	assert.Equal(t, "7500", f1.Balance.String())
}

func TestIncomeExpense(t *testing.T) {
	report := reports.IncomeExpense(workspace(), models.FinancialYear(2024))

	assert.Equal(t, "2024-25", report.FinancialYear)
	require.Len(t, report.Income, 1)
	assert.Equal(t, "S-1", report.Income[0].FlatNo)
	require.Len(t, report.Expenses, 3)
	assert.Equal(t, "e2", report.Expenses[0].ID)

	assert.Equal(t, "500", report.TotalIncome.String())
	assert.Equal(t, "9500", report.TotalExpense.String())
	assert.Equal(t, "-9000", report.Net.String())
	assert.False(t, report.Surplus)

	require.Len(t, report.ExpensesByCategory, 2)
	assert.Equal(t, models.ExpenseSecurity, report.ExpensesByCategory[0].Category)
	assert.Equal(t, "Utilities", report.ExpensesByCategory[1].Name)
	assert.Equal(t, "1500", report.ExpensesByCategory[1].Amount.String())
}

func TestSummarize(t *testing.T) {
	dash := reports.Summarize(workspace(), date(2024, 4, 20))

	assert.Equal(t, 4, dash.ActiveFlats)
	assert.Equal(t, 3, dash.PendingBills)
	assert.Equal(t, "7700", dash.TotalOutstanding.String())
	assert.Equal(t, "5450", dash.CurrentMonthOutstanding.String())
	assert.Equal(t, "7500", dash.OverdueAmount.String())

	require.Len(t, dash.RecentPayments, 3)
	assert.Equal(t, "RCP-2024-04-0001", dash.RecentPayments[0].ReceiptNo)
	require.Len(t, dash.RecentBills, 4)
	assert.Equal(t, 4, dash.RecentBills[0].Month)
}
