package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/model"
)

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{
		"12":       12,
		" 4.50 ":   4.5,
		"$1,234.5": 1234.5,
		"0":        0,
		"$0.99":    0.99,
	} {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, in := range []string{"", "abc", "-1", "NaN", "Inf", "1e400"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestExpenseBuild(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)

	e, err := Expense{Title: "  Lunch ", Amount: "12.5", Category: "Food", Notes: "with Sam"}.Build(now, loc)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", e.Title)
	assert.Equal(t, 12.5, e.Amount)
	assert.Equal(t, model.CategoryFood, e.Category)
	assert.Equal(t, now, e.Date)
	require.NotNil(t, e.Notes)
	assert.Equal(t, "with Sam", *e.Notes)
	assert.NotEmpty(t, e.ID)

	e, err = Expense{Title: "Bus", Amount: "2", Category: "transport", Date: "2024-03-01"}.Build(now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 30, 0, 0, loc), e.Date)
	assert.Nil(t, e.Notes)
}

func TestExpenseBuildRejects(t *testing.T) {
	now := time.Now()
	_, err := Expense{Title: "  ", Amount: "1", Category: "food"}.Build(now, time.UTC)
	assert.EqualError(t, err, "title is required")

	_, err = Expense{Title: "x", Amount: "-3", Category: "food"}.Build(now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Expense{Title: "x", Amount: "3", Category: "pets"}.Build(now, time.UTC)
	assert.ErrorIs(t, err, model.ErrUnknownCategory)

	_, err = Expense{Title: "x", Amount: "3", Category: "food", Date: "03/01/2024"}.Build(now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGoalBuild(t *testing.T) {
	g, err := Goal{Name: "Trip", Target: "1000", Saved: "100", Deadline: "2024-12-31"}.Build(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Trip", g.Name)
	assert.Equal(t, 1000.0, g.TargetAmount)
	assert.Equal(t, 100.0, g.SavedAmount)
	require.NotNil(t, g.Deadline)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *g.Deadline)

	g, err = Goal{Name: "Fund", Target: "50"}.Build(time.UTC)
	require.NoError(t, err)
	assert.Zero(t, g.SavedAmount)
	assert.Nil(t, g.Deadline)

	_, err = Goal{Name: "Fund"}.Build(time.UTC)
	assert.EqualError(t, err, "target is required")
}

func TestLimitBuild(t *testing.T) {
	c, v, err := Limit{Category: "HEALTH", Amount: "$80"}.Build()
	require.NoError(t, err)
	assert.Equal(t, model.CategoryHealth, c)
	assert.Equal(t, 80.0, v)

	_, _, err = Limit{Category: "health", Amount: "lots"}.Build()
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCheckDay(t *testing.T) {
	assert.NoError(t, CheckDay(""))
	assert.NoError(t, CheckDay(" 2024-02-29 "))
	assert.ErrorIs(t, CheckDay("2023-02-29"), ErrInvalidDate)
	assert.ErrorIs(t, CheckDay("tomorrow"), ErrInvalidDate)
}
