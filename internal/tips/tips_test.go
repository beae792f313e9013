package tips

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/moneymate/internal/model"
)

type fakeSource struct {
	expenses []model.Expense
	goals    []model.SavingsGoal
}

func (f fakeSource) Expenses() []model.Expense { return f.expenses }
func (f fakeSource) Goals() []model.SavingsGoal { return f.goals }
func (f fakeSource) Location() *time.Location { return time.UTC }

var now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func TestCoffeeTip(t *testing.T) {
	src := fakeSource{expenses: []model.Expense{
		model.NewExpense("Morning Coffee", 4, now, model.CategoryFood, ""),
	}}
	tip := SimpleTip(src, now)
	assert.Contains(t, tip, "$48")
	assert.Equal(t, "Cutting $4/mo on coffee saves ~$48/yr.", tip)
}

func TestCoffeeTipIgnoresOtherSpend(t *testing.T) {
	src := fakeSource{
		expenses: []model.Expense{
			model.NewExpense("coffee beans", 20, now, model.CategoryShopping, ""),
			model.NewExpense("COFFEE", 3, now.AddDate(0, -1, 0), model.CategoryFood, ""),
			model.NewExpense("Lunch", 12, now, model.CategoryFood, ""),
		},
	}
	assert.Equal(t, genericTip, SimpleTip(src, now))
}

func TestGoalTipPicksLeastFunded(t *testing.T) {
	src := fakeSource{goals: []model.SavingsGoal{
		model.NewSavingsGoal("Laptop", 1200, 600, nil),
		model.NewSavingsGoal("Trip", 1000, 100, nil),
		model.NewSavingsGoal("Bike", 500, 50, nil),
	}}
	// Trip and Bike tie at 10%; the earlier one wins.
	assert.Equal(t, "Save ~$75/wk for 12 weeks to hit Trip.", SimpleTip(src, now))
}

func TestGoalTipFallsBackWhenReached(t *testing.T) {
	src := fakeSource{goals: []model.SavingsGoal{
		model.NewSavingsGoal("Done", 100, 150, nil),
	}}
	assert.Equal(t, genericTip, SimpleTip(src, now))
	assert.NotEmpty(t, SimpleTip(fakeSource{}, now))
}

func TestWeeklyTarget(t *testing.T) {
	assert.Equal(t, 1, WeeklyTarget(0.01))
	assert.Equal(t, 1, WeeklyTarget(12))
	assert.Equal(t, 2, WeeklyTarget(12.5))
	assert.Equal(t, 0, WeeklyTarget(0))
}

func TestGoalMessage(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "Great start! Keep adding to build momentum."},
		{0.244, "Great start! Keep adding to build momentum."},
		{0.25, "Nice! You're a quarter of the way there."},
		{0.5, "Halfway there, stay consistent!"},
		{0.994, "So close! A final push will do it."},
		{0.996, "Goal reached, awesome work!"},
		{1, "Goal reached, awesome work!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GoalMessage(tt.progress), "progress %v", tt.progress)
	}
}
