package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
)

type fakeSource struct {
	expenses []model.Expense
	budgets  []model.BudgetCategoryLimit
	settings model.AppSettings
}

func (f fakeSource) Budgets() []model.BudgetCategoryLimit { return f.budgets }
func (f fakeSource) Settings() model.AppSettings { return f.settings }
func (f fakeSource) Location() *time.Location { return time.UTC }

func (f fakeSource) CurrentMonthSpend(c model.ExpenseCategory, at time.Time) float64 {
	start, end := pipeline.MonthRange(at, time.UTC)
	return pipeline.CategorySpend(f.expenses, c, start, end)
}

func (f fakeSource) TodaySpend(at time.Time) float64 {
	start, end := pipeline.DayRange(at, time.UTC)
	return pipeline.Sum(pipeline.FilterByTime(f.expenses, start, end))
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func expense(amount float64, c model.ExpenseCategory, at time.Time) model.Expense {
	return model.Expense{ID: model.NewID(), Title: "x", Amount: amount, Date: at, Category: c}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		spend float64
		limit float64
		want  Level
	}{
		{"unset limit", 100, 0, LevelNone},
		{"negative limit", 100, -5, LevelNone},
		{"below threshold", 44.99, 50, LevelNone},
		{"at threshold", 45, 50, LevelNearing},
		{"at limit", 50, 50, LevelNearing},
		{"over limit", 50.01, 50, LevelExceeded},
		{"zero spend", 0, 50, LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.spend, tt.limit, DefaultThreshold))
		})
	}
}

func TestClassifyDisjoint(t *testing.T) {
	for _, threshold := range []float64{0.5, 0.8, 0.9, 1.0} {
		for s := 0.0; s <= 120; s += 2.5 {
			level := Classify(s, 100, threshold)
			nearing := threshold*100 <= s && s <= 100
			exceeded := s > 100
			assert.Equal(t, nearing, level == LevelNearing, "t=%v s=%v", threshold, s)
			assert.Equal(t, exceeded, level == LevelExceeded, "t=%v s=%v", threshold, s)
		}
	}
}

func TestEvaluateOrder(t *testing.T) {
	src := fakeSource{
		expenses: []model.Expense{
			expense(60, model.CategoryShopping, now),
			expense(46, model.CategoryFood, now),
			expense(19, model.CategoryTransport, now),
		},
		budgets: []model.BudgetCategoryLimit{
			model.NewBudgetLimit(model.CategoryShopping, 50),
			model.NewBudgetLimit(model.CategoryTransport, 20),
			model.NewBudgetLimit(model.CategoryFood, 50),
		},
		settings: model.AppSettings{DailyMaxSpend: 100},
	}

	alerts := Evaluate(src, now, DefaultThreshold)
	require.Len(t, alerts, 4)

	assert.Equal(t, ScopeDaily, alerts[0].Scope)
	assert.Equal(t, KindExceeded, alerts[0].Kind)
	assert.InDelta(t, 125, alerts[0].Spend, 1e-9)

	assert.Equal(t, model.CategoryFood, alerts[1].Category)
	assert.Equal(t, KindNearing, alerts[1].Kind)
	assert.Equal(t, model.CategoryTransport, alerts[2].Category)
	assert.Equal(t, KindNearing, alerts[2].Kind)
	assert.Equal(t, model.CategoryShopping, alerts[3].Category)
	assert.Equal(t, KindExceeded, alerts[3].Kind)

	assert.Equal(t, "Nearing limit: Food, Transport • Exceeded: Shopping", Banner(alerts))
}

func TestEvaluateIgnoresOtherMonths(t *testing.T) {
	src := fakeSource{
		expenses: []model.Expense{expense(500, model.CategoryFood, now.AddDate(0, -1, 0))},
		budgets:  []model.BudgetCategoryLimit{model.NewBudgetLimit(model.CategoryFood, 50)},
	}
	assert.Empty(t, Evaluate(src, now, DefaultThreshold))
	assert.Empty(t, Banner(nil))
}

func TestProspective(t *testing.T) {
	src := fakeSource{
		expenses: []model.Expense{expense(40, model.CategoryFood, now)},
		budgets: []model.BudgetCategoryLimit{
			model.NewBudgetLimit(model.CategoryFood, 50),
			model.NewBudgetLimit(model.CategoryShopping, 10),
		},
		settings: model.AppSettings{DailyMaxSpend: 45},
	}

	assert.Empty(t, Filter(Evaluate(src, now, DefaultThreshold), ScopeCategory, KindExceeded))

	pending := expense(15, model.CategoryFood, now)
	alerts := Prospective(src, pending, now, DefaultThreshold)
	require.Len(t, alerts, 2)
	assert.Equal(t, ScopeDaily, alerts[0].Scope)
	assert.Equal(t, KindExceeded, alerts[0].Kind)
	assert.InDelta(t, 55, alerts[0].Spend, 1e-9)
	assert.Equal(t, model.CategoryFood, alerts[1].Category)
	assert.Equal(t, KindExceeded, alerts[1].Kind)
	assert.Len(t, Filter(alerts, ScopeDaily, ""), 1)
	assert.Len(t, Filter(alerts, ScopeCategory, KindExceeded), 1)
	assert.Empty(t, Filter(alerts, ScopeCategory, KindNearing))

	// Dated last week: counts toward the month but not today.
	backdated := expense(15, model.CategoryFood, now.AddDate(0, 0, -7))
	alerts = Prospective(src, backdated, now, DefaultThreshold)
	require.Len(t, alerts, 1)
	assert.Equal(t, ScopeCategory, alerts[0].Scope)
	assert.False(t, HasDaily(alerts))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "You're nearing your Food budget. ($45 / $50)",
		Message(Alert{Kind: KindNearing, Scope: ScopeCategory, Category: model.CategoryFood, Spend: 45.9, Limit: 50}))
	assert.Equal(t, "You've exceeded your daily limit. ($60 / $50)",
		Message(Alert{Kind: KindExceeded, Scope: ScopeDaily, Spend: 60, Limit: 50}))
}
