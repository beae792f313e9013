package csvcodec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/model"
)

var now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func TestEscape(t *testing.T) {
	tests := map[string]string{
		"plain":         "plain",
		"a,b":           `"a,b"`,
		`say "hi"`:      `"say ""hi"""`,
		"line\nbreak":   "\"line\nbreak\"",
		"":              "",
		"trailing     ": "trailing     ",
	}
	for in, want := range tests {
		assert.Equal(t, want, Escape(in), "Escape(%q)", in)
	}
}

func TestEncodeExpenses(t *testing.T) {
	e := model.Expense{
		ID:       "e1",
		Title:    "Lunch, with team",
		Amount:   12.5,
		Date:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Category: model.CategoryFood,
	}
	got := EncodeExpenses([]model.Expense{e})
	want := "id,title,amount,date,category,notes\n" +
		`e1,"Lunch, with team",12.5,2024-01-02T03:04:05Z,food,`
	assert.Equal(t, want, got)
	assert.Equal(t, ExpenseHeader, EncodeExpenses(nil))
}

func TestExpenseRoundTrip(t *testing.T) {
	notes := "split \"evenly\",\nthree ways"
	in := []model.Expense{
		{ID: "a", Title: "Coffee", Amount: 4.25, Date: time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC), Category: model.CategoryFood},
		{ID: "b", Title: `Dinner "out", downtown`, Amount: 88, Date: time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC), Category: model.CategoryEntertainment, Notes: &notes},
		{ID: "c", Title: "Rent", Amount: 1200, Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Category: model.CategoryHousing},
	}

	out, res, err := DecodeExpenses(strings.NewReader(EncodeExpenses(in)), now)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 3}, res)
	assert.Equal(t, in, out)
}

func TestGoalRoundTrip(t *testing.T) {
	deadline := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []model.SavingsGoal{
		{ID: "g1", Name: "Emergency, fund", TargetAmount: 2000, SavedAmount: 450.5, Deadline: &deadline},
		{ID: "g2", Name: "Vacation", TargetAmount: 1500, SavedAmount: 1600},
	}

	out, res, err := DecodeGoals(strings.NewReader(EncodeGoals(in)))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, in, out)
}

func TestDecodeExpensesExample(t *testing.T) {
	input := "id,title,amount,date,category,notes\nabc,Lunch,12.5,2024-01-01T00:00:00Z,food,\n"
	out, res, err := DecodeExpenses(strings.NewReader(input), now)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Result{Imported: 1}, res)

	e := out[0]
	assert.Equal(t, "abc", e.ID)
	assert.Equal(t, "Lunch", e.Title)
	assert.InDelta(t, 12.5, e.Amount, 1e-9)
	assert.Equal(t, model.CategoryFood, e.Category)
	assert.Nil(t, e.Notes)
	assert.True(t, e.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeExpensesLenient(t *testing.T) {
	input := strings.Join([]string{
		"whatever header",
		"1,Too,few,columns",
		",Snack,abc,not-a-date,crypto,",
		"2,Bus,-3,2024-02-01T10:00:00Z,TRANSPORT,ticket",
		"",
		"3,Book,15,2024-02-02T10:00:00Z,education,\"used, cheap\"",
	}, "\n")

	out, res, err := DecodeExpenses(strings.NewReader(input), now)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 3, Skipped: 1}, res)
	require.Len(t, out, 3)

	snack := out[0]
	assert.NotEmpty(t, snack.ID)
	assert.Zero(t, snack.Amount)
	assert.Equal(t, now, snack.Date)
	assert.Equal(t, model.CategoryOther, snack.Category)

	assert.Zero(t, out[1].Amount)
	assert.Equal(t, model.CategoryOther, out[1].Category, "tokens match exactly")
	assert.Equal(t, "used, cheap", out[2].NotesOrEmpty())
}

func TestDecodeExpensesResyncsAfterUnclosedQuote(t *testing.T) {
	input := strings.Join([]string{
		ExpenseHeader,
		`a,"Broken,1,2024-01-01T00:00:00Z,food,`,
		"b,Lunch,12,2024-01-02T12:00:00Z,food,",
		`c,Dinner,30,2024-01-02T19:00:00Z,food,"with ""friends"""`,
	}, "\n")

	out, res, err := DecodeExpenses(strings.NewReader(input), now)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2, Skipped: 1}, res)
	require.Len(t, out, 2)
	assert.Equal(t, "Lunch", out[0].Title)
	assert.Equal(t, "Dinner", out[1].Title)
	assert.Equal(t, `with "friends"`, out[1].NotesOrEmpty())
}

func TestDecodeExpensesMultilineField(t *testing.T) {
	input := ExpenseHeader + "\r\n" +
		"m,\"Groceries\r\nand snacks\",20,2024-01-03T10:00:00Z,food,\r\n" +
		"n,Taxi,8,2024-01-03T11:00:00Z,Transport,\r\n"

	out, res, err := DecodeExpenses(strings.NewReader(input), now)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2}, res)
	require.Len(t, out, 2)
	assert.Equal(t, "Groceries\nand snacks", out[0].Title)
	assert.Equal(t, model.CategoryOther, out[1].Category)
}

func TestDecodeHeaderOnly(t *testing.T) {
	out, res, err := DecodeGoals(strings.NewReader(GoalHeader))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, Result{}, res)
}

func TestDecodeGoalsBadDeadline(t *testing.T) {
	input := GoalHeader + "\ng,Car,5000,100,someday\n"
	out, _, err := DecodeGoals(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Deadline)
}
