package models

import (
	"fmt"
	"time"
)

// FinancialYear is an April to March accounting year named by its starting year.
type FinancialYear int

// FinancialYearOf returns the financial year containing t
func FinancialYearOf(t time.Time) FinancialYear {
	if t.Month() >= time.April {
		return FinancialYear(t.Year())
	}
	return FinancialYear(t.Year() - 1)
}

// Start is 1 April of the starting year, 00:00 UTC.
func (fy FinancialYear) Start() time.Time {
	return time.Date(int(fy), time.April, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last instant of 31 March of the following year, UTC.
func (fy FinancialYear) End() time.Time {
	return time.Date(int(fy)+1, time.March, 31, 23, 59, 59, 999999999, time.UTC)
}

// Contains reports whether t falls on a calendar day of the financial year.
func (fy FinancialYear) Contains(t time.Time) bool {
	return InDateRange(t, fy.Start(), fy.End())
}

// Label renders the year as 2024-25.
func (fy FinancialYear) Label() string {
	return fmt.Sprintf("%d-%02d", int(fy), (int(fy)+1)%100)
}

// FolderName is the Drive folder holding the year's receipts, e.g. FY-2024-2025.
func (fy FinancialYear) FolderName() string {
	return fmt.Sprintf("FY-%d-%d", int(fy), int(fy)+1)
}

// InDateRange reports whether t falls on a calendar day between from and to,
// both inclusive. A zero bound is open.
func InDateRange(t, from, to time.Time) bool {
	day := DateOf(t)
	if !from.IsZero() && day.Before(DateOf(from)) {
		return false
	}
	if !to.IsZero() && day.After(DateOf(to)) {
		return false
	}
	return true
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
