// Package reports derives the society's financial reports from a workspace
// snapshot. Every report is a pure function of its inputs.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// OutstandingRow is one flat's position.
type OutstandingRow struct {
	FlatID      string          `json:"flatId"`
	FlatNo      string          `json:"flatNo"`
	OwnerName   string          `json:"ownerName"`
	TotalBilled decimal.Decimal `json:"totalBilled"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Overdue     decimal.Decimal `json:"overdue"`
}

// OutstandingReport lists what each active flat owes.
type OutstandingReport struct {
	AsOf                 time.Time        `json:"asOf"`
	Rows                 []OutstandingRow `json:"rows"`
	TotalOutstanding     decimal.Decimal  `json:"totalOutstanding"`
	TotalOverdue         decimal.Decimal  `json:"totalOverdue"`
	FlatsWithOutstanding int              `json:"flatsWithOutstanding"`
}

// Outstanding computes billed, paid and overdue amounts per active flat.
// Flats with nothing billed and nothing owed are left out; rows are sorted by
// outstanding amount, largest first.
func Outstanding(ws *storage.Workspace, now time.Time) *OutstandingReport {
	report := &OutstandingReport{
		AsOf:             now,
		Rows:             []OutstandingRow{},
		TotalOutstanding: decimal.Zero,
		TotalOverdue:     decimal.Zero,
	}

	for _, flat := range ws.Flats {
		if !flat.Active() {
			continue
		}

		row := OutstandingRow{
			FlatID:      flat.ID,
			FlatNo:      flat.FlatNo,
			OwnerName:   flat.OwnerName,
			TotalBilled: decimal.Zero,
			TotalPaid:   decimal.Zero,
			Overdue:     decimal.Zero,
		}
		for _, b := range ws.FlatBills(flat.ID) {
			row.TotalBilled = row.TotalBilled.Add(b.GrandTotal)
			if b.IsOverdue(now) {
				row.Overdue = row.Overdue.Add(b.Balance())
			}
		}
		for _, p := range ws.FlatPayments(flat.ID) {
			row.TotalPaid = row.TotalPaid.Add(p.Amount)
		}
		row.Outstanding = row.TotalBilled.Sub(row.TotalPaid)

		if !row.Outstanding.IsPositive() && !row.TotalBilled.IsPositive() {
			continue
		}
		report.Rows = append(report.Rows, row)
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].Outstanding.GreaterThan(report.Rows[j].Outstanding)
	})

	for _, row := range report.Rows {
		report.TotalOutstanding = report.TotalOutstanding.Add(row.Outstanding)
		report.TotalOverdue = report.TotalOverdue.Add(row.Overdue)
		if row.Outstanding.IsPositive() {
			report.FlatsWithOutstanding++
		}
	}
	return report
}

func flatNo(flats []models.Flat, id string) string {
	if f := models.FindFlat(flats, id); f != nil {
		return f.FlatNo
	}
	return "Unknown"
}
