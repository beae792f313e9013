package model

// BudgetCategoryLimit caps monthly spend for one category. A zero limit means unset.
type BudgetCategoryLimit struct {
	ID           string          `json:"id"`
	Category     ExpenseCategory `json:"category"`
	MonthlyLimit float64         `json:"monthlyLimit"`
}

// NewBudgetLimit builds a limit with a fresh ID.
func NewBudgetLimit(category ExpenseCategory, monthlyLimit float64) BudgetCategoryLimit {
	return BudgetCategoryLimit{
		ID:           NewID(),
		Category:     category,
		MonthlyLimit: monthlyLimit,
	}
}

// BudgetStatus is a category's month-to-date spend against its limit.
type BudgetStatus struct {
	Category ExpenseCategory
	Spend    float64
	Limit    float64 // 0 when no limit is set
}

// Used returns spend/limit clamped to [0, 1], or 0 without a limit.
func (b BudgetStatus) Used() float64 {
	if b.Limit <= 0 {
		return 0
	}
	u := b.Spend / b.Limit
	if u > 1 {
		return 1
	}
	if u < 0 {
		return 0
	}
	return u
}

// Over reports whether a set limit has been exceeded.
func (b BudgetStatus) Over() bool {
	return b.Limit > 0 && b.Spend > b.Limit
}
