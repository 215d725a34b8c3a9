package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// RecentCount is how many recent payments and bills the dashboard shows.
const RecentCount = 5

// RecentPayment is a payment with its flat number.
type RecentPayment struct {
	models.Payment
	FlatNo string `json:"flatNo"`
}

// RecentBill is a bill with its flat number.
type RecentBill struct {
	models.Bill
	FlatNo string `json:"flatNo"`
}

// Dashboard is the admin overview of the society.
type Dashboard struct {
	ActiveFlats             int             `json:"activeFlats"`
	PendingBills            int             `json:"pendingBills"`
	TotalOutstanding        decimal.Decimal `json:"totalOutstanding"`
	CurrentMonthOutstanding decimal.Decimal `json:"currentMonthOutstanding"`
	OverdueAmount           decimal.Decimal `json:"overdueAmount"`
	RecentPayments          []RecentPayment `json:"recentPayments"`
	RecentBills             []RecentBill    `json:"recentBills"`
}

// Summarize builds the dashboard as of now
func Summarize(ws *storage.Workspace, now time.Time) *Dashboard {
	dash := &Dashboard{
		TotalOutstanding:        decimal.Zero,
		CurrentMonthOutstanding: decimal.Zero,
		OverdueAmount:           decimal.Zero,
		RecentPayments:          []RecentPayment{},
		RecentBills:             []RecentBill{},
	}

	for _, f := range ws.Flats {
		if f.Active() {
			dash.ActiveFlats++
		}
	}

	for _, b := range ws.Bills {
		if b.Status == models.BillPaid {
			continue
		}
		dash.PendingBills++
		remaining := b.Balance()
		dash.TotalOutstanding = dash.TotalOutstanding.Add(remaining)
		if b.Month == int(now.Month()) && b.Year == now.Year() {
			dash.CurrentMonthOutstanding = dash.CurrentMonthOutstanding.Add(remaining)
		}
		if b.IsOverdue(now) {
			dash.OverdueAmount = dash.OverdueAmount.Add(remaining)
		}
	}

	payments := append([]models.Payment(nil), ws.Payments...)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.After(payments[j].PaymentDate)
	})
	for _, p := range payments[:min(RecentCount, len(payments))] {
		dash.RecentPayments = append(dash.RecentPayments, RecentPayment{Payment: p, FlatNo: flatNo(ws.Flats, p.FlatID)})
	}

	bills := append([]models.Bill(nil), ws.Bills...)
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].GeneratedAt.After(bills[j].GeneratedAt)
	})
	for _, b := range bills[:min(RecentCount, len(bills))] {
		dash.RecentBills = append(dash.RecentBills, RecentBill{Bill: b, FlatNo: flatNo(ws.Flats, b.FlatID)})
	}

	return dash
}
