package reports

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"society/internal/storage"
	"society/pkg/models"
)

// UnassignedBuilding names the group of flats without a known building.
const UnassignedBuilding = "Unassigned"

// ChargeColumn is one charge type column of the fee position.
type ChargeColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FeeTotals are the summed amounts of a flat, a building or the whole report.
type FeeTotals struct {
	Charges         []decimal.Decimal `json:"charges"`
	TotalCharges    decimal.Decimal   `json:"totalCharges"`
	Interest        decimal.Decimal   `json:"interest"`
	Penalty         decimal.Decimal   `json:"penalty"`
	PreviousBalance decimal.Decimal   `json:"previousBalance"`
	Balance         decimal.Decimal   `json:"balance"`
}

func newFeeTotals(columns int) FeeTotals {
	t := FeeTotals{
		Charges:         make([]decimal.Decimal, columns),
		TotalCharges:    decimal.Zero,
		Interest:        decimal.Zero,
		Penalty:         decimal.Zero,
		PreviousBalance: decimal.Zero,
		Balance:         decimal.Zero,
	}
	for i := range t.Charges {
		t.Charges[i] = decimal.Zero
	}
	return t
}

func (t *FeeTotals) add(o FeeTotals) {
	for i := range t.Charges {
		t.Charges[i] = t.Charges[i].Add(o.Charges[i])
	}
	t.TotalCharges = t.TotalCharges.Add(o.TotalCharges)
	t.Interest = t.Interest.Add(o.Interest)
	t.Penalty = t.Penalty.Add(o.Penalty)
	t.PreviousBalance = t.PreviousBalance.Add(o.PreviousBalance)
	t.Balance = t.Balance.Add(o.Balance)
}

// FeeRow is one flat of the fee position.
type FeeRow struct {
	SrNo      int    `json:"srNo"`
	FlatID    string `json:"flatId"`
	FlatNo    string `json:"flatNo"`
	OwnerName string `json:"ownerName"`
	FeeTotals
}

// BuildingGroup holds the rows of one building and their subtotal.
type BuildingGroup struct {
	BuildingID string    `json:"buildingId"`
	Name       string    `json:"name"`
	Rows       []FeeRow  `json:"rows"`
	Subtotal   FeeTotals `json:"subtotal"`
}

// FeePositionReport is the charge-wise position of every active flat as of a date.
type FeePositionReport struct {
	AsOf    time.Time       `json:"asOf"`
	Columns []ChargeColumn  `json:"columns"`
	Groups  []BuildingGroup `json:"groups"`
	Totals  FeeTotals       `json:"totals"`
}

// FeePosition breaks down what each active flat was billed up to the end of
// asOf's day, per charge type, and what it still owes. Flats are grouped by
// building in order of first appearance and sorted by the numeric part of
// their flat number. A non-empty buildingID restricts the report to that
// building.
func FeePosition(ws *storage.Workspace, asOf time.Time, buildingID string) *FeePositionReport {
	y, m, d := asOf.Date()
	cutoff := time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)

	var columns []ChargeColumn
	index := make(map[string]int)
	for _, ct := range ws.MasterData.ChargeTypes {
		if !ct.Active() {
			continue
		}
		index[ct.ID] = len(columns)
		columns = append(columns, ChargeColumn{ID: ct.ID, Name: ct.Name})
	}

	var order []string
	byBuilding := make(map[string][]models.Flat)
	for _, flat := range ws.Flats {
		if !flat.Active() {
			continue
		}
		if buildingID != "" && flat.BuildingID != buildingID {
			continue
		}
		if _, seen := byBuilding[flat.BuildingID]; !seen {
			order = append(order, flat.BuildingID)
		}
		byBuilding[flat.BuildingID] = append(byBuilding[flat.BuildingID], flat)
	}

	report := &FeePositionReport{
		AsOf:    cutoff,
		Columns: columns,
		Groups:  []BuildingGroup{},
		Totals:  newFeeTotals(len(columns)),
	}
	if report.Columns == nil {
		report.Columns = []ChargeColumn{}
	}

	srNo := 0
	for _, id := range order {
		flats := byBuilding[id]
		sort.SliceStable(flats, func(i, j int) bool {
			return flatNumber(flats[i].FlatNo) < flatNumber(flats[j].FlatNo)
		})

		group := BuildingGroup{
			BuildingID: id,
			Name:       buildingName(ws.MasterData, id),
			Subtotal:   newFeeTotals(len(columns)),
		}
		for _, flat := range flats {
			srNo++
			row := FeeRow{
				SrNo:      srNo,
				FlatID:    flat.ID,
				FlatNo:    flat.FlatNo,
				OwnerName: flat.OwnerName,
				FeeTotals: flatPosition(ws, flat.ID, cutoff, index, len(columns)),
			}
			group.Rows = append(group.Rows, row)
			group.Subtotal.add(row.FeeTotals)
		}
		report.Totals.add(group.Subtotal)
		report.Groups = append(report.Groups, group)
	}
	return report
}

func flatPosition(ws *storage.Workspace, flatID string, cutoff time.Time, index map[string]int, columns int) FeeTotals {
	t := newFeeTotals(columns)
	billed := decimal.Zero
	paid := decimal.Zero

	for _, b := range ws.FlatBills(flatID) {
		if b.GeneratedAt.After(cutoff) {
			continue
		}
		for _, item := range b.LineItems {
			if i, ok := index[item.ChargeTypeID]; ok {
				t.Charges[i] = t.Charges[i].Add(item.Amount)
			}
			t.TotalCharges = t.TotalCharges.Add(item.Amount)
		}
		t.Interest = t.Interest.Add(b.Interest)
		t.Penalty = t.Penalty.Add(b.Penalty)
		if b.PreviousDue.IsPositive() {
			t.PreviousBalance = t.PreviousBalance.Add(b.PreviousDue)
		}
		billed = billed.Add(b.GrandTotal)
	}
	for _, p := range ws.FlatPayments(flatID) {
		if p.PaymentDate.After(cutoff) {
			continue
		}
		paid = paid.Add(p.Amount)
	}

	t.Balance = billed.Sub(paid)
	return t
}

func buildingName(md models.MasterData, id string) string {
	if b := md.FindBuilding(id); b != nil && b.Active() {
		return b.Name
	}
	return UnassignedBuilding
}

var nonDigits = regexp.MustCompile(`\D`)

// flatNumber extracts the digits of a flat number, so A-102 sorts as 102
func flatNumber(flatNo string) int {
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(flatNo, ""))
	if err != nil {
		return 0
	}
	return n
}
