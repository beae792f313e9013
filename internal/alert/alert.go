// Package alert derives budget alert conditions from ledger state.
//
// Everything here is a pure function of its inputs so the same logic serves the
// prospective check run before an expense is committed and the retrospective
// check that drives notifications.
package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
)

// DefaultThreshold is the fraction of a limit at which spend counts as nearing it.
const DefaultThreshold = 0.9

// Level classifies spend against a limit.
type Level int

const (
	LevelNone Level = iota
	LevelNearing
	LevelExceeded
)

// Kind distinguishes nearing from exceeded alerts.
type Kind string

const (
	KindNearing  Kind = "nearing"
	KindExceeded Kind = "exceeded"
)

// Scope tells whether an alert concerns the daily cap or a category budget.
type Scope string

const (
	ScopeDaily    Scope = "daily"
	ScopeCategory Scope = "category"
)

// Alert is one active alert condition.
type Alert struct {
	Kind     Kind                  `json:"kind"`
	Scope    Scope                 `json:"scope"`
	Category model.ExpenseCategory `json:"category,omitempty"`
	Spend    float64               `json:"spend"`
	Limit    float64               `json:"limit"`
}

// Source is the read side of the ledger the evaluator needs.
type Source interface {
	Budgets() []model.BudgetCategoryLimit
	Settings() model.AppSettings
	CurrentMonthSpend(category model.ExpenseCategory, at time.Time) float64
	TodaySpend(at time.Time) float64
	Location() *time.Location
}

// Classify compares spend to limit. A non-positive limit is unset and never alerts.
// Spend exactly at the limit is nearing; only spend strictly above it is exceeded.
func Classify(spend, limit, threshold float64) Level {
	if limit <= 0 {
		return LevelNone
	}
	if spend > limit {
		return LevelExceeded
	}
	if spend >= threshold*limit {
		return LevelNearing
	}
	return LevelNone
}

func kindFor(l Level) (Kind, bool) {
	switch l {
	case LevelNearing:
		return KindNearing, true
	case LevelExceeded:
		return KindExceeded, true
	default:
		return "", false
	}
}

// Evaluate returns the active alerts at the given instant: the daily alert
// first, then category alerts in model.Categories order.
func Evaluate(src Source, at time.Time, threshold float64) []Alert {
	return evaluate(src, at, threshold, nil)
}

// Prospective evaluates as if e had already been recorded. Only alerts the
// expense contributes to (the daily cap and e's category) are returned.
func Prospective(src Source, e model.Expense, at time.Time, threshold float64) []Alert {
	return evaluate(src, at, threshold, &e)
}

func evaluate(src Source, at time.Time, threshold float64, pending *model.Expense) []Alert {
	loc := src.Location()
	var alerts []Alert

	dailyLimit := src.Settings().DailyMaxSpend
	today := src.TodaySpend(at)
	if pending != nil {
		if start, end := pipeline.DayRange(at, loc); pipeline.InRange(pending.Date, start, end) {
			today += pending.Amount
		}
	}
	if kind, ok := kindFor(Classify(today, dailyLimit, threshold)); ok {
		alerts = append(alerts, Alert{Kind: kind, Scope: ScopeDaily, Spend: today, Limit: dailyLimit})
	}

	budgets := src.Budgets()
	monthStart, monthEnd := pipeline.MonthRange(at, loc)
	for _, c := range model.Categories {
		if pending != nil && pending.Category != c {
			continue
		}
		limit, ok := limitFor(budgets, c)
		if !ok {
			continue
		}
		spend := src.CurrentMonthSpend(c, at)
		if pending != nil && pipeline.InRange(pending.Date, monthStart, monthEnd) {
			spend += pending.Amount
		}
		if kind, ok := kindFor(Classify(spend, limit, threshold)); ok {
			alerts = append(alerts, Alert{Kind: kind, Scope: ScopeCategory, Category: c, Spend: spend, Limit: limit})
		}
	}
	return alerts
}

func limitFor(budgets []model.BudgetCategoryLimit, c model.ExpenseCategory) (float64, bool) {
	for _, b := range budgets {
		if b.Category == c {
			return b.MonthlyLimit, true
		}
	}
	return 0, false
}

// Filter returns the alerts matching scope and kind. An empty kind matches both kinds.
func Filter(alerts []Alert, scope Scope, kind Kind) []Alert {
	var out []Alert
	for _, a := range alerts {
		if a.Scope == scope && (kind == "" || a.Kind == kind) {
			out = append(out, a)
		}
	}
	return out
}

// HasDaily reports whether any alert concerns the daily cap.
func HasDaily(alerts []Alert) bool {
	for _, a := range alerts {
		if a.Scope == ScopeDaily {
			return true
		}
	}
	return false
}

// CategoryNames joins the display labels of the alerts' categories.
func CategoryNames(alerts []Alert) string {
	names := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if a.Scope == ScopeCategory {
			names = append(names, a.Category.Label())
		}
	}
	return strings.Join(names, ", ")
}

// Banner renders the dashboard line for category alerts, e.g.
// "Nearing limit: Food • Exceeded: Shopping". Empty when nothing is active.
func Banner(alerts []Alert) string {
	var parts []string
	if nearing := Filter(alerts, ScopeCategory, KindNearing); len(nearing) > 0 {
		parts = append(parts, "Nearing limit: "+CategoryNames(nearing))
	}
	if exceeded := Filter(alerts, ScopeCategory, KindExceeded); len(exceeded) > 0 {
		parts = append(parts, "Exceeded: "+CategoryNames(exceeded))
	}
	return strings.Join(parts, " • ")
}

// Message is the user-facing sentence for a single alert.
func Message(a Alert) string {
	amounts := fmt.Sprintf("($%d / $%d)", int(a.Spend), int(a.Limit))
	subject := "daily limit"
	if a.Scope == ScopeCategory {
		subject = a.Category.Label() + " budget"
	}
	if a.Kind == KindExceeded {
		return fmt.Sprintf("You've exceeded your %s. %s", subject, amounts)
	}
	return fmt.Sprintf("You're nearing your %s. %s", subject, amounts)
}
