package model

import "time"

// Badge is an earned achievement. Nothing in the ledger awards badges; they are
// carried through persistence untouched.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedDate  time.Time `json:"earnedDate"`
}

// Challenge is a time-boxed savings challenge, carried through persistence untouched.
type Challenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsCompleted bool      `json:"isCompleted"`
}

// AppSettings holds user preferences. A zero DailyMaxSpend means no daily cap.
type AppSettings struct {
	DailyMaxSpend     float64 `json:"dailyMaxSpend"`
	HasSeenOnboarding bool    `json:"hasSeenOnboarding"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() AppSettings {
	return AppSettings{DailyMaxSpend: 0, HasSeenOnboarding: false}
}

// ExportBundle is the full persisted snapshot.
type ExportBundle struct {
	Expenses   []Expense             `json:"expenses"`
	Goals      []SavingsGoal         `json:"goals"`
	Budgets    []BudgetCategoryLimit `json:"budgets"`
	Badges     []Badge               `json:"badges"`
	Challenges []Challenge           `json:"challenges"`
	// Settings is optional; files written before settings existed omit it.
	Settings *AppSettings `json:"settings,omitempty"`
}

// SettingsOrDefault substitutes DefaultSettings when the snapshot has none.
func (b ExportBundle) SettingsOrDefault() AppSettings {
	if b.Settings == nil {
		return DefaultSettings()
	}
	return *b.Settings
}
