// Package entry validates and converts typed user input into ledger records.
// The CLI flags and the dashboard forms both go through it.
package entry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/moneymate/internal/model"
)

// DateLayout is the accepted day format for dates and deadlines.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidAmount is returned for amounts that are not finite non-negative numbers.
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	// ErrInvalidDate is returned for dates not in DateLayout.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, err := model.ParseCategory(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
			_, err := ParseAmount(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
			return CheckDay(fl.Field().String()) == nil
		})
		validate = v
	})
	return validate
}

// Expense is the raw input for a new expense.
type Expense struct {
	Title    string `validate:"required"`
	Amount   string `validate:"required,amount"`
	Category string `validate:"required,category"`
	Date     string `validate:"omitempty,day"`
	Notes    string
}

// Goal is the raw input for a new savings goal.
type Goal struct {
	Name     string `validate:"required"`
	Target   string `validate:"required,amount"`
	Saved    string `validate:"omitempty,amount"`
	Deadline string `validate:"omitempty,day"`
}

// Limit is the raw input for a category's monthly limit.
type Limit struct {
	Category string `validate:"required,category"`
	Amount   string `validate:"required,amount"`
}

// Validate checks v's tags and reports the first failure in plain words.
func Validate(v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return describe(err)
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "amount":
		return fmt.Errorf("%s: %w", field, ErrInvalidAmount)
	case "category":
		return fmt.Errorf("%w: %q", model.ErrUnknownCategory, fe.Value())
	case "day":
		return fmt.Errorf("%s: %w", field, ErrInvalidDate)
	}
	return fmt.Errorf("%s is invalid", field)
}

// ParseAmount reads a dollar amount. A leading "$" and thousands separators are allowed.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// CheckDay accepts an empty string or a YYYY-MM-DD day.
func CheckDay(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ParseDay reads a YYYY-MM-DD day in loc. The time of day is taken from now so
// entries added "today" sort naturally.
func ParseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	n := now.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), n.Hour(), n.Minute(), n.Second(), 0, loc), nil
}

// Build validates the input and returns a new expense. An empty date means now.
func (in Expense) Build(now time.Time, loc *time.Location) (model.Expense, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := Validate(in); err != nil {
		return model.Expense{}, err
	}
	amount, _ := ParseAmount(in.Amount)
	category, _ := model.ParseCategory(in.Category)
	date := now
	if strings.TrimSpace(in.Date) != "" {
		d, err := ParseDay(in.Date, now, loc)
		if err != nil {
			return model.Expense{}, err
		}
		date = d
	}
	return model.NewExpense(in.Title, amount, date, category, strings.TrimSpace(in.Notes)), nil
}

// Build validates the input and returns a new goal.
func (in Goal) Build(loc *time.Location) (model.SavingsGoal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := Validate(in); err != nil {
		return model.SavingsGoal{}, err
	}
	target, _ := ParseAmount(in.Target)
	saved := 0.0
	if strings.TrimSpace(in.Saved) != "" {
		saved, _ = ParseAmount(in.Saved)
	}
	var deadline *time.Time
	if strings.TrimSpace(in.Deadline) != "" {
		d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(in.Deadline), loc)
		if err != nil {
			return model.SavingsGoal{}, ErrInvalidDate
		}
		deadline = &d
	}
	return model.NewSavingsGoal(in.Name, target, saved, deadline), nil
}

// Build validates the input and returns the category and its limit.
func (in Limit) Build() (model.ExpenseCategory, float64, error) {
	if err := Validate(in); err != nil {
		return "", 0, err
	}
	category, _ := model.ParseCategory(in.Category)
	amount, _ := ParseAmount(in.Amount)
	return category, amount, nil
}
