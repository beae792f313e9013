// Package tips produces short, actionable savings suggestions.
package tips

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
)

const (
	coffeeKeyword = "coffee"
	goalWeeks     = 12

	genericTip   = "Skip one non-essential purchase today and add $5 to a goal."
	reminderText = "Skip a treat today and move $5 to your savings goal."
)

// Source is the ledger data a tip is derived from.
type Source interface {
	Expenses() []model.Expense
	Goals() []model.SavingsGoal
	Location() *time.Location
}

// SimpleTip returns one suggestion. It never returns an empty string.
//
// Month-to-date coffee spend wins; otherwise the least-funded goal gets a
// 12-week weekly target; otherwise a generic nudge.
func SimpleTip(src Source, at time.Time) string {
	if monthly := coffeeSpend(src, at); monthly > 0 {
		return fmt.Sprintf("Cutting $%d/mo on coffee saves ~$%d/yr.", int(monthly), int(monthly*12))
	}

	if goal, ok := leastFunded(src.Goals()); ok {
		if remaining := goal.Remaining(); remaining > 0 {
			return fmt.Sprintf("Save ~$%d/wk for %d weeks to hit %s.", WeeklyTarget(remaining), goalWeeks, goal.Name)
		}
	}
	return genericTip
}

// WeeklyTarget is ceil(remaining/12) in whole dollars.
func WeeklyTarget(remaining float64) int {
	if remaining <= 0 {
		return 0
	}
	perWeek := decimal.NewFromFloat(remaining).Div(decimal.NewFromInt(goalWeeks)).Ceil()
	if perWeek.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return math.MaxInt32
	}
	return int(perWeek.IntPart())
}

func coffeeSpend(src Source, at time.Time) float64 {
	start, end := pipeline.MonthRange(at, src.Location())
	food := pipeline.FilterByCategory(pipeline.FilterByTime(src.Expenses(), start, end), model.CategoryFood)
	return pipeline.Sum(pipeline.FilterByTitle(food, coffeeKeyword))
}

// leastFunded picks the goal with the lowest progress; ties keep collection order.
func leastFunded(goals []model.SavingsGoal) (model.SavingsGoal, bool) {
	if len(goals) == 0 {
		return model.SavingsGoal{}, false
	}
	sorted := append([]model.SavingsGoal(nil), goals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Progress() < sorted[j].Progress()
	})
	return sorted[0], true
}

// Reminder is the body of the daily savings reminder.
func Reminder() string {
	return reminderText
}

// GoalMessage is a motivational line for a goal at the given progress (0..1).
func GoalMessage(progress float64) string {
	pct := int(math.Round(progress * 100))
	switch {
	case pct < 25:
		return "Great start! Keep adding to build momentum."
	case pct < 50:
		return "Nice! You're a quarter of the way there."
	case pct < 75:
		return "Halfway there, stay consistent!"
	case pct < 100:
		return "So close! A final push will do it."
	default:
		return "Goal reached, awesome work!"
	}
}
