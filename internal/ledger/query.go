package ledger

import (
	"time"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
)

// CurrentMonthSpend sums a category's expenses in the calendar month containing at.
func (s *Store) CurrentMonthSpend(c model.ExpenseCategory, at time.Time) float64 {
	start, end := pipeline.MonthRange(at, s.loc)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.CategorySpend(s.expenses, c, start, end)
}

// TodaySpend sums expenses in [start-of-day, start-of-day+24h) for the day containing at.
func (s *Store) TodaySpend(at time.Time) float64 {
	start, end := pipeline.DayRange(at, s.loc)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.Sum(pipeline.FilterByTime(s.expenses, start, end))
}

// MonthSpend sums every expense in the calendar month containing at.
func (s *Store) MonthSpend(at time.Time) float64 {
	start, end := pipeline.MonthRange(at, s.loc)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.Sum(pipeline.FilterByTime(s.expenses, start, end))
}

// NearingLimitCategories is NearingLimitCategoriesAt for the current time.
func (s *Store) NearingLimitCategories(threshold float64) []model.BudgetCategoryLimit {
	return s.NearingLimitCategoriesAt(threshold, s.clock())
}

// NearingLimitCategoriesAt returns set limits whose month spend s satisfies
// threshold*limit <= s <= limit, in budget insertion order.
func (s *Store) NearingLimitCategoriesAt(threshold float64, at time.Time) []model.BudgetCategoryLimit {
	return s.limitsAt(at, threshold, alert.LevelNearing)
}

// ExceededLimitCategories is ExceededLimitCategoriesAt for the current time.
func (s *Store) ExceededLimitCategories() []model.BudgetCategoryLimit {
	return s.ExceededLimitCategoriesAt(s.clock())
}

// ExceededLimitCategoriesAt returns set limits whose month spend is strictly over the limit.
func (s *Store) ExceededLimitCategoriesAt(at time.Time) []model.BudgetCategoryLimit {
	return s.limitsAt(at, alert.DefaultThreshold, alert.LevelExceeded)
}

func (s *Store) limitsAt(at time.Time, threshold float64, want alert.Level) []model.BudgetCategoryLimit {
	var out []model.BudgetCategoryLimit
	for _, b := range s.Budgets() {
		if alert.Classify(s.CurrentMonthSpend(b.Category, at), b.MonthlyLimit, threshold) == want {
			out = append(out, b)
		}
	}
	return out
}

// Alerts evaluates every active alert at the given time.
func (s *Store) Alerts(threshold float64, at time.Time) []alert.Alert {
	return alert.Evaluate(s, at, threshold)
}

// BudgetStatuses returns month-to-date spend for every category, in category
// order, with the limit filled in where one is set.
func (s *Store) BudgetStatuses(at time.Time) []model.BudgetStatus {
	out := make([]model.BudgetStatus, 0, len(model.Categories))
	for _, c := range model.Categories {
		st := model.BudgetStatus{Category: c, Spend: s.CurrentMonthSpend(c, at)}
		if b, ok := s.BudgetFor(c); ok {
			st.Limit = b.MonthlyLimit
		}
		out = append(out, st)
	}
	return out
}

// CategoryTotals returns non-zero per-category totals for the month containing at.
func (s *Store) CategoryTotals(at time.Time) []model.CategoryTotal {
	start, end := pipeline.MonthRange(at, s.loc)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.AggregateCategories(s.expenses, start, end)
}

// DailySeries returns the last days days ending with the day containing at, oldest first.
func (s *Store) DailySeries(days int, at time.Time) []model.DailyTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.AggregateDays(s.expenses, days, at, s.loc)
}

// Summary returns headline numbers for the dashboard and daemon status.
func (s *Store) Summary(at time.Time) model.LedgerSummary {
	sum := model.LedgerSummary{
		MonthSpend: s.MonthSpend(at),
		TodaySpend: s.TodaySpend(at),
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum.Expenses = len(s.expenses)
	sum.Goals = len(s.goals)
	sum.Budgets = len(s.budgets)
	sum.DailyMaxSpend = s.settings.DailyMaxSpend
	for _, g := range s.goals {
		sum.SavedTotal += g.SavedAmount
		sum.TargetTotal += g.TargetAmount
	}
	return sum
}
