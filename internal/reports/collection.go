package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// CollectionRow is one payment received in the period.
type CollectionRow struct {
	models.Payment
	FlatNo string `json:"flatNo"`
}

// ModeTotal is the amount collected through one payment mode.
type ModeTotal struct {
	Mode   models.PaymentMode `json:"mode"`
	Label  string             `json:"label"`
	Amount decimal.Decimal    `json:"amount"`
}

// CollectionReport lists the payments received between two dates.
type CollectionReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Rows         []CollectionRow `json:"rows"`
	TotalsByMode []ModeTotal     `json:"totalsByMode"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

// Collection lists payments dated between from and to, both inclusive
// calendar days, newest first.
func Collection(ws *storage.Workspace, from, to time.Time) *CollectionReport {
	report := &CollectionReport{
		From:       from,
		To:         to,
		Rows:       []CollectionRow{},
		GrandTotal: decimal.Zero,
	}

	var matched []models.Payment
	for _, p := range ws.Payments {
		if models.InDateRange(p.PaymentDate, from, to) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PaymentDate.After(matched[j].PaymentDate)
	})

	for _, p := range matched {
		report.Rows = append(report.Rows, CollectionRow{Payment: p, FlatNo: flatNo(ws.Flats, p.FlatID)})
		report.GrandTotal = report.GrandTotal.Add(p.Amount)
	}
	report.TotalsByMode = totalsByMode(matched)
	return report
}

// totalsByMode returns one total per known mode in display order
func totalsByMode(payments []models.Payment) []ModeTotal {
	sums := make(map[models.PaymentMode]decimal.Decimal)
	for _, p := range payments {
		sums[p.PaymentMode] = sums[p.PaymentMode].Add(p.Amount)
	}

	out := make([]ModeTotal, 0, len(models.PaymentModes))
	for _, mode := range models.PaymentModes {
		out = append(out, ModeTotal{Mode: mode, Label: mode.Label(), Amount: sums[mode]})
	}
	return out
}
