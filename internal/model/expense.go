package model

import "time"

// Expense is one recorded purchase.
type Expense struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   float64         `json:"amount"`
	Date     time.Time       `json:"date"`
	Category ExpenseCategory `json:"category"`
	Notes    *string         `json:"notes,omitempty"`
}

// NewExpense builds an expense with a fresh ID. Empty notes are stored as absent.
func NewExpense(title string, amount float64, date time.Time, category ExpenseCategory, notes string) Expense {
	e := Expense{
		ID:       NewID(),
		Title:    title,
		Amount:   amount,
		Date:     date,
		Category: category,
	}
	if notes != "" {
		e.Notes = &notes
	}
	return e
}

// NotesOrEmpty returns the notes text, or "" when absent.
func (e Expense) NotesOrEmpty() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// SavingsGoal tracks progress toward a target amount.
type SavingsGoal struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"targetAmount"`
	SavedAmount  float64    `json:"savedAmount"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// NewSavingsGoal builds a goal with a fresh ID.
func NewSavingsGoal(name string, target, saved float64, deadline *time.Time) SavingsGoal {
	return SavingsGoal{
		ID:           NewID(),
		Name:         name,
		TargetAmount: target,
		SavedAmount:  saved,
		Deadline:     deadline,
	}
}

// Progress is saved/target clamped to [0, 1]; 0 when the target is not positive.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.SavedAmount / g.TargetAmount
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Remaining is the amount still needed, never negative.
func (g SavingsGoal) Remaining() float64 {
	r := g.TargetAmount - g.SavedAmount
	if r < 0 {
		return 0
	}
	return r
}
