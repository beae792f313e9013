package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/logging"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/components"
)

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T, seed func(*ledger.Store)) (App, *ledger.Store) {
	t.Helper()
	l := ledger.New("",
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocation(time.UTC),
		ledger.WithLogger(logging.Discard()),
	)
	l.MarkOnboardingSeen()
	if seed != nil {
		seed(l)
	}
	a := NewApp(l, config.DefaultConfig())
	a.saveConfig = func(config.Config) error { return nil }

	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(LedgerLoadedMsg{LoadTime: time.Millisecond})
	return m.(App), l
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m.(App)
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
	}
	assert.Equal(t, -1, App{}.tabAtX(10_000))
}

func TestOnboardingOpensForNewLedger(t *testing.T) {
	l := ledger.New("", ledger.WithClock(func() time.Time { return now }), ledger.WithLogger(logging.Discard()))
	a := NewApp(l, config.DefaultConfig())
	m, _ := a.Update(LedgerLoadedMsg{})
	got := m.(App)
	assert.True(t, got.loaded)
	require.NotNil(t, got.form)
	assert.Equal(t, formOnboarding, got.formKind)
}

func TestOnboardingSubmitSetsCap(t *testing.T) {
	l := ledger.New("", ledger.WithClock(func() time.Time { return now }), ledger.WithLogger(logging.Discard()))
	a := NewApp(l, config.DefaultConfig())
	a.saveConfig = func(config.Config) error { return nil }
	m, _ := a.Update(LedgerLoadedMsg{})
	a = m.(App)

	a.formVals.DailyCap = "40"
	m, _ = a.submitForm(formOnboarding)
	a = m.(App)

	settings := l.Settings()
	assert.True(t, settings.HasSeenOnboarding)
	assert.Equal(t, 40.0, settings.DailyMaxSpend)
	assert.Nil(t, a.form)
}

func TestTabNavigation(t *testing.T) {
	a, _ := newTestApp(t, nil)
	assert.Nil(t, a.form)
	assert.Equal(t, tabOverview, a.activeTab)

	a = press(t, a, "e")
	assert.Equal(t, tabExpenses, a.activeTab)
	a = press(t, a, "right", "right")
	assert.Equal(t, tabBudget, a.activeTab)
	a = press(t, a, "x")
	assert.Equal(t, tabSettings, a.activeTab)
	a = press(t, a, "right")
	assert.Equal(t, tabOverview, a.activeTab)
	a = press(t, a, "left")
	assert.Equal(t, tabSettings, a.activeTab)
}

func TestAddExpenseWithinCap(t *testing.T) {
	a, l := newTestApp(t, func(l *ledger.Store) {
		l.UpsertBudget(model.NewBudgetLimit(model.CategoryFood, 50))
	})

	a = press(t, a, "a")
	require.NotNil(t, a.form)
	assert.Equal(t, formAddExpense, a.formKind)

	a.formVals.Expense = entry.Expense{Title: "Groceries", Amount: "46", Category: "food"}
	m, _ := a.submitForm(formAddExpense)
	a = m.(App)

	require.Len(t, l.Expenses(), 1)
	assert.Equal(t, "Groceries", l.Expenses()[0].Title)
	assert.Contains(t, a.flash, "You're nearing your Food budget. ($46 / $50)")
	assert.Len(t, a.alerts, 1)
}

func TestAddExpenseOverDailyCapAsksFirst(t *testing.T) {
	a, l := newTestApp(t, func(l *ledger.Store) {
		l.SetDailyMaxSpend(20)
		l.AddExpense(model.NewExpense("Lunch", 15, now, model.CategoryFood, ""))
	})

	a.formVals.Expense = entry.Expense{Title: "Dinner", Amount: "10", Category: "food"}
	m, _ := a.submitForm(formAddExpense)
	a = m.(App)

	require.NotNil(t, a.form)
	assert.Equal(t, formConfirmOverDaily, a.formKind)
	require.NotNil(t, a.pending)
	assert.Len(t, l.Expenses(), 1, "not committed before confirmation")

	a.formVals.Confirm = true
	a.form = nil
	m, _ = a.submitForm(formConfirmOverDaily)
	a = m.(App)

	assert.Len(t, l.Expenses(), 2)
	assert.Nil(t, a.pending)
	assert.Equal(t, 25.0, a.summary.TodaySpend)
}

func TestAddExpenseOverDailyCapDeclined(t *testing.T) {
	a, l := newTestApp(t, func(l *ledger.Store) {
		l.SetDailyMaxSpend(20)
	})

	a.formVals.Expense = entry.Expense{Title: "TV", Amount: "300", Category: "shopping"}
	m, _ := a.submitForm(formAddExpense)
	a = m.(App)
	require.Equal(t, formConfirmOverDaily, a.formKind)

	a.formVals.Confirm = false
	a.form = nil
	m, _ = a.submitForm(formConfirmOverDaily)
	a = m.(App)

	assert.Empty(t, l.Expenses())
}

func TestSetLimitKeepsExistingID(t *testing.T) {
	var id string
	a, l := newTestApp(t, func(l *ledger.Store) {
		b := model.NewBudgetLimit(model.CategoryHealth, 10)
		id = b.ID
		l.UpsertBudget(b)
	})

	a.formVals.Limit = entry.Limit{Category: "health", Amount: "75"}
	m, _ := a.submitForm(formSetLimit)
	a = m.(App)

	b, ok := l.BudgetFor(model.CategoryHealth)
	require.True(t, ok)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, 75.0, b.MonthlyLimit)
	assert.Len(t, l.Budgets(), 1)
	assert.Equal(t, "Health limit set to $75.00", a.flash)
}

func TestDeleteSelectedExpense(t *testing.T) {
	a, l := newTestApp(t, func(l *ledger.Store) {
		l.AddExpense(model.NewExpense("old", 1, now, model.CategoryFood, ""))
		l.AddExpense(model.NewExpense("new", 2, now, model.CategoryFood, ""))
	})

	a = press(t, a, "e", "j")
	assert.Equal(t, 1, a.expState.cursor)
	a = press(t, a, "D")
	require.Equal(t, formDeleteExpense, a.formKind)

	a.formVals.Confirm = true
	a.form = nil
	m, _ := a.submitForm(formDeleteExpense)
	a = m.(App)

	require.Len(t, l.Expenses(), 1)
	assert.Equal(t, "new", l.Expenses()[0].Title)
	assert.Equal(t, 0, a.expState.cursor)
}

func TestSettingsThresholdEdit(t *testing.T) {
	var saved config.Config
	a, _ := newTestApp(t, nil)
	a.saveConfig = func(c config.Config) error {
		saved = c
		return nil
	}

	a = press(t, a, "x", "j")
	assert.Equal(t, settingsFieldThreshold, a.settings.cursor)
	a = press(t, a, "enter")
	require.True(t, a.settings.editing)

	a.settings.input.SetValue("75")
	a = press(t, a, "enter")
	assert.False(t, a.settings.editing)
	assert.True(t, a.settings.saved)
	assert.InDelta(t, 0.75, a.threshold, 1e-9)
	assert.InDelta(t, 0.75, saved.Alerts.NearingThreshold, 1e-9)

	a = press(t, a, "enter")
	a.settings.input.SetValue("250")
	a = press(t, a, "enter")
	assert.ErrorIs(t, a.settings.saveErr, errBadThreshold)
	assert.InDelta(t, 0.75, a.threshold, 1e-9)
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t, func(l *ledger.Store) {
		l.SetDailyMaxSpend(30)
		l.UpsertBudget(model.NewBudgetLimit(model.CategoryFood, 50))
		l.AddExpense(model.NewExpense("Coffee", 48, now, model.CategoryFood, "oat milk"))
		l.UpsertGoal(model.NewSavingsGoal("Trip", 1000, 100, nil))
	})

	for _, key := range []string{"o", "e", "g", "b", "x"} {
		a = press(t, a, key)
		view := a.View()
		lines := strings.Split(view, "\n")
		assert.Len(t, lines, 40, "tab %s", key)
	}

	a = press(t, a, "o")
	assert.Contains(t, a.View(), "Nearing limit: Food")

	a = press(t, a, "?")
	assert.Contains(t, a.View(), "Keyboard Shortcuts")
	a = press(t, a, "j")
	assert.False(t, a.showHelp)
}

func TestListWindowKeepsCursorVisible(t *testing.T) {
	s := listState{cursor: 0}
	start, end := s.window(10, 4)
	assert.Equal(t, [2]int{0, 4}, [2]int{start, end})

	s.cursor = 7
	start, end = s.window(10, 4)
	assert.Equal(t, [2]int{4, 8}, [2]int{start, end})

	start, end = s.window(2, 4)
	assert.Equal(t, [2]int{0, 2}, [2]int{start, end})
}
