// Package pipeline aggregates expenses over calendar periods.
package pipeline

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

// MonthRange returns the half-open interval [start, end) of the calendar month containing at.
func MonthRange(at time.Time, loc *time.Location) (time.Time, time.Time) {
	local := at.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayRange returns [start-of-day, start-of-day + 24h) for the day containing at.
func DayRange(at time.Time, loc *time.Location) (time.Time, time.Time) {
	local := at.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

// InRange reports whether t lies in [since, until).
func InRange(t, since, until time.Time) bool {
	return !t.Before(since) && t.Before(until)
}

// FilterByTime returns expenses dated within [since, until).
func FilterByTime(expenses []model.Expense, since, until time.Time) []model.Expense {
	var result []model.Expense
	for _, e := range expenses {
		if InRange(e.Date, since, until) {
			result = append(result, e)
		}
	}
	return result
}

// FilterByCategory returns expenses in the given category.
func FilterByCategory(expenses []model.Expense, category model.ExpenseCategory) []model.Expense {
	var result []model.Expense
	for _, e := range expenses {
		if e.Category == category {
			result = append(result, e)
		}
	}
	return result
}

// FilterByTitle returns expenses whose title contains keyword, ignoring case.
func FilterByTitle(expenses []model.Expense, keyword string) []model.Expense {
	if keyword == "" {
		return expenses
	}
	var result []model.Expense
	for _, e := range expenses {
		if containsIgnoreCase(e.Title, keyword) {
			result = append(result, e)
		}
	}
	return result
}

// Sum adds amounts in fixed point so repeated cents don't drift.
func Sum(expenses []model.Expense) float64 {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.InexactFloat64()
}

// CategorySpend sums one category's expenses within [since, until).
func CategorySpend(expenses []model.Expense, category model.ExpenseCategory, since, until time.Time) float64 {
	return Sum(FilterByCategory(FilterByTime(expenses, since, until), category))
}

// AggregateCategories totals spend per category within [since, until).
// Categories with no spend are omitted; order follows model.Categories.
func AggregateCategories(expenses []model.Expense, since, until time.Time) []model.CategoryTotal {
	filtered := FilterByTime(expenses, since, until)

	sums := make(map[model.ExpenseCategory]decimal.Decimal)
	for _, e := range filtered {
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	var totals []model.CategoryTotal
	for _, c := range model.Categories {
		sum, ok := sums[c]
		if !ok || !sum.IsPositive() {
			continue
		}
		totals = append(totals, model.CategoryTotal{Category: c, Total: sum.InexactFloat64()})
	}
	return totals
}

// AggregateDays returns one bucket per calendar day for the n days ending on the
// day containing until, oldest first. Days without spend are zero so charts show gaps.
func AggregateDays(expenses []model.Expense, n int, until time.Time, loc *time.Location) []model.DailyTotal {
	if n <= 0 {
		return nil
	}
	lastStart, _ := DayRange(until, loc)
	first := lastStart.AddDate(0, 0, -(n - 1))

	days := make([]model.DailyTotal, n)
	sums := make([]decimal.Decimal, n)
	index := make(map[string]int, n)
	for i := range days {
		d := first.AddDate(0, 0, i)
		days[i].Date = d
		sums[i] = decimal.Zero
		index[d.Format("2006-01-02")] = i
	}

	for _, e := range expenses {
		local := e.Date.In(loc)
		i, ok := index[local.Format("2006-01-02")]
		if !ok {
			continue
		}
		sums[i] = sums[i].Add(decimal.NewFromFloat(e.Amount))
		days[i].Count++
	}
	for i := range days {
		days[i].Total = sums[i].InexactFloat64()
	}
	return days
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
