// Package ledger holds the authoritative in-memory moneymate state: expenses,
// savings goals, budgets and settings, plus JSON snapshot persistence.
package ledger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/moneymate/internal/model"
)

// Store is the ledger. The Store never validates its input; callers reject
// malformed data before mutating.
type Store struct {
	path   string
	clock  func() time.Time
	loc    *time.Location
	logger *slog.Logger

	mu         sync.RWMutex
	expenses   []model.Expense // newest first
	goals      []model.SavingsGoal
	budgets    []model.BudgetCategoryLimit
	badges     []model.Badge
	challenges []model.Challenge
	settings   model.AppSettings

	// ioMu serializes snapshot writes and removals.
	ioMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for queries without an explicit reference time.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLocation sets the calendar used for day and month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger used for swallowed persistence errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty Store backed by the snapshot at path. An empty path keeps
// the ledger in memory only. Call Load to read the snapshot.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		clock:    time.Now,
		loc:      time.Local,
		logger:   slog.Default(),
		settings: model.DefaultSettings(),
		subs:     make(map[int]func(Change)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the snapshot path.
func (s *Store) Path() string { return s.path }

// Location returns the calendar location used for period boundaries.
func (s *Store) Location() *time.Location { return s.loc }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.clock() }

// AddExpense inserts e at the front of the expense list.
func (s *Store) AddExpense(e model.Expense) {
	s.mu.Lock()
	s.expenses = append([]model.Expense{e}, s.expenses...)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeExpenses})
}

// DeleteExpenses removes expenses by position in the current ordering.
// Out-of-range and repeated indices are ignored. It returns the number removed.
func (s *Store) DeleteExpenses(indices []int) int {
	s.mu.Lock()
	var removed int
	s.expenses, removed = removeAt(s.expenses, indices)
	s.mu.Unlock()
	if removed > 0 {
		s.emit(Change{Kind: ChangeExpenses})
	}
	return removed
}

// UpsertGoal replaces the goal with the same ID, or appends it.
func (s *Store) UpsertGoal(g model.SavingsGoal) {
	s.mu.Lock()
	replaced := false
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			s.goals[i] = g
			replaced = true
			break
		}
	}
	if !replaced {
		s.goals = append(s.goals, g)
	}
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeGoals})
}

// DeleteGoals removes goals by position, with the same rules as DeleteExpenses.
func (s *Store) DeleteGoals(indices []int) int {
	s.mu.Lock()
	var removed int
	s.goals, removed = removeAt(s.goals, indices)
	s.mu.Unlock()
	if removed > 0 {
		s.emit(Change{Kind: ChangeGoals})
	}
	return removed
}

// UpsertBudget replaces the limit for the same category, or appends it.
// This keeps at most one limit per category.
func (s *Store) UpsertBudget(b model.BudgetCategoryLimit) {
	s.mu.Lock()
	replaced := false
	for i := range s.budgets {
		if s.budgets[i].Category == b.Category {
			s.budgets[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		s.budgets = append(s.budgets, b)
	}
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeBudgets})
}

// SetDailyMaxSpend sets the daily cap. Zero disables it.
func (s *Store) SetDailyMaxSpend(v float64) {
	s.mu.Lock()
	s.settings.DailyMaxSpend = v
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeSettings})
}

// MarkOnboardingSeen records that first-run setup has completed.
func (s *Store) MarkOnboardingSeen() {
	s.mu.Lock()
	s.settings.HasSeenOnboarding = true
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeSettings})
}

// UpdateSettings replaces the settings wholesale.
func (s *Store) UpdateSettings(settings model.AppSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeSettings})
}

// ImportExpenses adds decoded expenses the way AddExpense does, one at a time.
// An ID that is already taken is replaced with a fresh one.
func (s *Store) ImportExpenses(expenses []model.Expense) int {
	if len(expenses) == 0 {
		return 0
	}
	s.mu.Lock()
	seen := make(map[string]bool, len(s.expenses)+len(expenses))
	for _, e := range s.expenses {
		seen[e.ID] = true
	}
	for _, e := range expenses {
		if e.ID == "" || seen[e.ID] {
			e.ID = model.NewID()
		}
		seen[e.ID] = true
		s.expenses = append([]model.Expense{e}, s.expenses...)
	}
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeExpenses})
	return len(expenses)
}

// ImportGoals appends decoded goals, re-keying taken IDs.
func (s *Store) ImportGoals(goals []model.SavingsGoal) int {
	if len(goals) == 0 {
		return 0
	}
	s.mu.Lock()
	seen := make(map[string]bool, len(s.goals)+len(goals))
	for _, g := range s.goals {
		seen[g.ID] = true
	}
	for _, g := range goals {
		if g.ID == "" || seen[g.ID] {
			g.ID = model.NewID()
		}
		seen[g.ID] = true
		s.goals = append(s.goals, g)
	}
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeGoals})
	return len(goals)
}

// Expenses returns a copy of the expenses, newest first.
func (s *Store) Expenses() []model.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Expense(nil), s.expenses...)
}

// Goals returns a copy of the goals in insertion order.
func (s *Store) Goals() []model.SavingsGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SavingsGoal(nil), s.goals...)
}

// Budgets returns a copy of the budget limits in insertion order.
func (s *Store) Budgets() []model.BudgetCategoryLimit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.BudgetCategoryLimit(nil), s.budgets...)
}

// Badges returns a copy of the badges.
func (s *Store) Badges() []model.Badge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Badge(nil), s.badges...)
}

// Challenges returns a copy of the challenges.
func (s *Store) Challenges() []model.Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Challenge(nil), s.challenges...)
}

// Settings returns the current settings.
func (s *Store) Settings() model.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// BudgetFor returns the limit set for a category, if any.
func (s *Store) BudgetFor(c model.ExpenseCategory) (model.BudgetCategoryLimit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.Category == c {
			return b, true
		}
	}
	return model.BudgetCategoryLimit{}, false
}

// Bundle returns the full state as a snapshot. Collections are never nil so
// they encode as empty arrays.
func (s *Store) Bundle() model.ExportBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings := s.settings
	return model.ExportBundle{
		Expenses:   append(make([]model.Expense, 0, len(s.expenses)), s.expenses...),
		Goals:      append(make([]model.SavingsGoal, 0, len(s.goals)), s.goals...),
		Budgets:    append(make([]model.BudgetCategoryLimit, 0, len(s.budgets)), s.budgets...),
		Badges:     append(make([]model.Badge, 0, len(s.badges)), s.badges...),
		Challenges: append(make([]model.Challenge, 0, len(s.challenges)), s.challenges...),
		Settings:   &settings,
	}
}

// replace swaps in a whole state. Callers hold no lock.
func (s *Store) replace(b model.ExportBundle) {
	s.mu.Lock()
	s.expenses = b.Expenses
	s.goals = b.Goals
	s.budgets = b.Budgets
	s.badges = b.Badges
	s.challenges = b.Challenges
	s.settings = b.SettingsOrDefault()
	s.mu.Unlock()
}

func removeAt[T any](items []T, indices []int) ([]T, int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(items) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return items, 0
	}
	kept := make([]T, 0, len(items)-len(drop))
	for i, item := range items {
		if !drop[i] {
			kept = append(kept, item)
		}
	}
	return kept, len(drop)
}
