package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// formKind identifies which modal form is open.
type formKind int

const (
	formNone formKind = iota
	formOnboarding
	formAddExpense
	formAddGoal
	formSetLimit
	formDailyCap
	formConfirmOverDaily
	formDeleteExpense
	formDeleteGoal
)

// formValues is the binding target of every form field. It is held by pointer
// so the huh fields keep writing into the same struct while App is copied.
type formValues struct {
	Expense entry.Expense
	Goal    entry.Goal
	Limit   entry.Limit

	DailyCap string
	Theme    string
	Confirm  bool
}

func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
	return km
}

func finishForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithKeyMap(keyMap()).
		WithShowHelp(true)
}

func validateAmount(s string) error {
	_, err := entry.ParseAmount(s)
	return err
}

func validateOptionalAmount(s string) error {
	if s == "" {
		return nil
	}
	return validateAmount(s)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(c.Icon()+"  "+c.Label(), string(c))
	}
	return opts
}

func newOnboardingForm(v *formValues) *huh.Form {
	v.Theme = theme.Active.Name
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}
	return finishForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to MoneyMate").
				Description("Track what you spend, set monthly limits per category\n"+
					"and a daily cap, and save toward goals.\n\n"+
					"You'll be warned when spending nears or passes a limit."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily spending cap").
				Description("Leave empty for no daily cap.").
				Placeholder("e.g. 40").
				Value(&v.DailyCap).
				Validate(validateOptionalAmount),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

func newExpenseForm(v *formValues, today string) *huh.Form {
	v.Expense = entry.Expense{Category: string(model.CategoryFood), Date: today}
	return finishForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Coffee").
				Value(&v.Expense.Title).
				Validate(validateRequired("title")),
			huh.NewInput().
				Title("Amount").
				Placeholder("4.50").
				Value(&v.Expense.Amount).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions()...).
				Value(&v.Expense.Category),
			huh.NewInput().
				Title("Date").
				Description(entry.DateLayout).
				Value(&v.Expense.Date).
				Validate(entry.CheckDay),
			huh.NewText().
				Title("Notes").
				CharLimit(280).
				Value(&v.Expense.Notes),
		).Title("New expense"),
	)
}

func newGoalForm(v *formValues) *huh.Form {
	v.Goal = entry.Goal{}
	return finishForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal").
				Placeholder("Trip").
				Value(&v.Goal.Name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Target amount").
				Value(&v.Goal.Target).
				Validate(validateAmount),
			huh.NewInput().
				Title("Already saved").
				Placeholder("0").
				Value(&v.Goal.Saved).
				Validate(validateOptionalAmount),
			huh.NewInput().
				Title("Deadline").
				Description(entry.DateLayout + ", optional").
				Value(&v.Goal.Deadline).
				Validate(entry.CheckDay),
		).Title("New savings goal"),
	)
}

func newLimitForm(v *formValues, category model.ExpenseCategory, current float64) *huh.Form {
	v.Limit = entry.Limit{Category: string(category)}
	if current > 0 {
		v.Limit.Amount = fmt.Sprintf("%.2f", current)
	}
	return finishForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions()...).
				Value(&v.Limit.Category),
			huh.NewInput().
				Title("Monthly limit").
				Description("0 removes the limit.").
				Value(&v.Limit.Amount).
				Validate(validateAmount),
		).Title("Monthly limit"),
	)
}

func newDailyCapForm(v *formValues, current float64) *huh.Form {
	v.DailyCap = ""
	if current > 0 {
		v.DailyCap = fmt.Sprintf("%.2f", current)
	}
	return finishForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily spending cap").
				Description("0 or empty removes the cap.").
				Value(&v.DailyCap).
				Validate(validateOptionalAmount),
		),
	)
}

func newConfirmForm(v *formValues, title, description, affirmative string) *huh.Form {
	v.Confirm = false
	return finishForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(&v.Confirm),
		),
	)
}
