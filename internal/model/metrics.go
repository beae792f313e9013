package model

import "time"

// CategoryTotal is the summed spend of one category over a period.
type CategoryTotal struct {
	Category ExpenseCategory
	Total    float64
}

// DailyTotal is the summed spend of one calendar day.
type DailyTotal struct {
	Date  time.Time
	Total float64
	Count int
}

// LedgerSummary is a compact view of the ledger used by the dashboard and daemon.
type LedgerSummary struct {
	Expenses      int
	Goals         int
	Budgets       int
	MonthSpend    float64
	TodaySpend    float64
	DailyMaxSpend float64
	SavedTotal    float64
	TargetTotal   float64
}
