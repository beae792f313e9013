package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsGoalProgress(t *testing.T) {
	tests := []struct {
		name          string
		target, saved float64
		want          float64
	}{
		{"half", 200, 100, 0.5},
		{"over saved clamps", 100, 250, 1},
		{"zero target", 0, 50, 0},
		{"negative target", -10, 5, 0},
		{"nothing saved", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := SavingsGoal{TargetAmount: tt.target, SavedAmount: tt.saved}
			assert.InDelta(t, tt.want, g.Progress(), 1e-9)
			assert.GreaterOrEqual(t, g.Progress(), 0.0)
			assert.LessOrEqual(t, g.Progress(), 1.0)
		})
	}
}

func TestSavingsGoalRemaining(t *testing.T) {
	assert.InDelta(t, 150.0, SavingsGoal{TargetAmount: 200, SavedAmount: 50}.Remaining(), 1e-9)
	assert.Zero(t, SavingsGoal{TargetAmount: 100, SavedAmount: 300}.Remaining())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Food ")
	require.NoError(t, err)
	assert.Equal(t, CategoryFood, c)

	_, err = ParseCategory("groceries")
	require.ErrorIs(t, err, ErrUnknownCategory)

	assert.Equal(t, CategoryOther, CategoryOrOther("groceries"))
	assert.Equal(t, CategoryHealth, CategoryOrOther("health"))
	assert.Equal(t, CategoryOther, CategoryOrOther("Health"))
}

func TestCategoryMetadata(t *testing.T) {
	require.Len(t, Categories, 9)
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Label())
		assert.NotEmpty(t, c.Icon())
	}
	assert.Equal(t, "Entertainment", CategoryEntertainment.Label())
	assert.False(t, ExpenseCategory("nope").Valid())
}

func TestCategoryJSONRejectsUnknown(t *testing.T) {
	var e Expense
	err := json.Unmarshal([]byte(`{"id":"x","title":"t","amount":1,"date":"2024-01-01T00:00:00Z","category":"crypto"}`), &e)
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBundleOmitsAbsentOptionals(t *testing.T) {
	date := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	b := ExportBundle{
		Expenses:   []Expense{{ID: "e1", Title: "Bus", Amount: 2.75, Date: date, Category: CategoryTransport}},
		Goals:      []SavingsGoal{{ID: "g1", Name: "Trip", TargetAmount: 100}},
		Budgets:    []BudgetCategoryLimit{},
		Badges:     []Badge{},
		Challenges: []Challenge{},
	}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	s := string(data)
	assert.NotContains(t, s, "notes")
	assert.NotContains(t, s, "deadline")
	assert.NotContains(t, s, "settings")

	var back ExportBundle
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.Expenses[0].Notes)
	assert.Nil(t, back.Goals[0].Deadline)
	assert.Nil(t, back.Settings)
	assert.Equal(t, DefaultSettings(), back.SettingsOrDefault())
	assert.True(t, back.Expenses[0].Date.Equal(date))
}

func TestNewExpenseNotes(t *testing.T) {
	e := NewExpense("Lunch", 12.5, time.Now(), CategoryFood, "")
	assert.Nil(t, e.Notes)
	assert.NotEmpty(t, e.ID)

	e = NewExpense("Lunch", 12.5, time.Now(), CategoryFood, "with team")
	require.NotNil(t, e.Notes)
	assert.Equal(t, "with team", e.NotesOrEmpty())
}

func TestBudgetStatus(t *testing.T) {
	b := BudgetStatus{Category: CategoryFood, Spend: 60, Limit: 50}
	assert.True(t, b.Over())
	assert.Equal(t, 1.0, b.Used())

	b = BudgetStatus{Category: CategoryFood, Spend: 60}
	assert.False(t, b.Over())
	assert.Zero(t, b.Used())
}
