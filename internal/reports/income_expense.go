package reports

import (
	"sort"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// IncomeRow is one payment counted as income.
type IncomeRow struct {
	models.Payment
	FlatNo string `json:"flatNo"`
}

// CategoryTotal is the amount spent in one expense category.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Name     string                 `json:"name"`
	Amount   decimal.Decimal        `json:"amount"`
}

// IncomeExpenseReport is the receipts and payments statement of a financial year.
type IncomeExpenseReport struct {
	FinancialYear      string           `json:"financialYear"`
	Income             []IncomeRow      `json:"income"`
	Expenses           []models.Expense `json:"expenses"`
	TotalIncome        decimal.Decimal  `json:"totalIncome"`
	TotalExpense       decimal.Decimal  `json:"totalExpense"`
	Net                decimal.Decimal  `json:"net"`
	Surplus            bool             `json:"surplus"`
	IncomeByMode       []ModeTotal      `json:"incomeByMode"`
	ExpensesByCategory []CategoryTotal  `json:"expensesByCategory"`
}

// IncomeExpense compares payments received with expenses paid during the
// financial year. Both lists are in date order; categories with spending are
// listed largest first.
func IncomeExpense(ws *storage.Workspace, fy models.FinancialYear) *IncomeExpenseReport {
	report := &IncomeExpenseReport{
		FinancialYear: fy.Label(),
		Income:        []IncomeRow{},
		Expenses:      []models.Expense{},
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
	}

	var payments []models.Payment
	for _, p := range ws.Payments {
		if fy.Contains(p.PaymentDate) {
			payments = append(payments, p)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	for _, p := range payments {
		report.Income = append(report.Income, IncomeRow{Payment: p, FlatNo: flatNo(ws.Flats, p.FlatID)})
		report.TotalIncome = report.TotalIncome.Add(p.Amount)
	}

	for _, e := range ws.Expenses {
		if fy.Contains(e.Date) {
			report.Expenses = append(report.Expenses, e)
			report.TotalExpense = report.TotalExpense.Add(e.Amount)
		}
	}
	sort.SliceStable(report.Expenses, func(i, j int) bool {
		return report.Expenses[i].Date.Before(report.Expenses[j].Date)
	})

	report.Net = report.TotalIncome.Sub(report.TotalExpense)
	report.Surplus = !report.Net.IsNegative()
	report.IncomeByMode = totalsByMode(payments)
	report.ExpensesByCategory = categoryTotals(report.Expenses)
	return report
}

func categoryTotals(expenses []models.Expense) []CategoryTotal {
	sums := make(map[models.ExpenseCategory]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	out := []CategoryTotal{}
	for _, c := range models.ExpenseCategories {
		if amount, ok := sums[c.ID]; ok && amount.IsPositive() {
			out = append(out, CategoryTotal{Category: c.ID, Name: c.Name, Amount: amount})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
