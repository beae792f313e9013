package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/model"
)

func exp(title string, amount float64, at time.Time, c model.ExpenseCategory) model.Expense {
	return model.Expense{ID: title, Title: title, Amount: amount, Date: at, Category: c}
}

func TestMonthRangeHalfOpen(t *testing.T) {
	at := time.Date(2024, 2, 17, 15, 4, 0, 0, time.UTC)
	start, end := MonthRange(at, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	assert.True(t, InRange(start, start, end))
	assert.False(t, InRange(end, start, end))
}

func TestDayRangeBoundaries(t *testing.T) {
	at := time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC)
	start, end := DayRange(at, time.UTC)

	expenses := []model.Expense{
		exp("late", 10, start.Add(23*time.Hour+59*time.Minute), model.CategoryFood),
		exp("next", 20, start.Add(24*time.Hour), model.CategoryFood),
		exp("before", 40, start.Add(-time.Nanosecond), model.CategoryFood),
	}
	got := FilterByTime(expenses, start, end)
	require.Len(t, got, 1)
	assert.Equal(t, "late", got[0].Title)
}

func TestSumIsFixedPoint(t *testing.T) {
	var expenses []model.Expense
	for i := 0; i < 10; i++ {
		expenses = append(expenses, exp("c", 0.1, time.Now(), model.CategoryFood))
	}
	assert.Equal(t, 1.0, Sum(expenses))
	assert.Equal(t, 0.3, Sum([]model.Expense{
		exp("a", 0.1, time.Now(), model.CategoryFood),
		exp("b", 0.2, time.Now(), model.CategoryFood),
	}))
	assert.Zero(t, Sum(nil))
}

func TestAggregateCategoriesOrderAndOmission(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	start, end := MonthRange(now, time.UTC)
	expenses := []model.Expense{
		exp("bus", 3, now, model.CategoryTransport),
		exp("lunch", 12, now, model.CategoryFood),
		exp("dinner", 20, now, model.CategoryFood),
		exp("old", 99, now.AddDate(0, -1, 0), model.CategoryShopping),
		exp("free", 0, now, model.CategoryHealth),
	}

	totals := AggregateCategories(expenses, start, end)
	require.Len(t, totals, 2)
	assert.Equal(t, model.CategoryFood, totals[0].Category)
	assert.Equal(t, 32.0, totals[0].Total)
	assert.Equal(t, model.CategoryTransport, totals[1].Category)
}

func TestAggregateDaysFillsGaps(t *testing.T) {
	now := time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		exp("today", 5, now, model.CategoryFood),
		exp("today2", 2.5, now.Add(-time.Hour), model.CategoryOther),
		exp("first", 7, now.AddDate(0, 0, -29), model.CategoryFood),
		exp("too old", 100, now.AddDate(0, 0, -30), model.CategoryFood),
	}

	days := AggregateDays(expenses, 30, now, time.UTC)
	require.Len(t, days, 30)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, 7.0, days[0].Total)
	assert.Equal(t, 7.5, days[29].Total)
	assert.Equal(t, 2, days[29].Count)
	assert.Zero(t, days[15].Total)

	assert.Nil(t, AggregateDays(expenses, 0, now, time.UTC))
}

func TestFilterByTitleIgnoresCase(t *testing.T) {
	expenses := []model.Expense{
		exp("Morning Coffee", 4, time.Now(), model.CategoryFood),
		exp("Groceries", 40, time.Now(), model.CategoryFood),
	}
	got := FilterByTitle(expenses, "coffee")
	require.Len(t, got, 1)
	assert.Equal(t, "Morning Coffee", got[0].Title)
	assert.Len(t, FilterByTitle(expenses, ""), 2)
}
