// Package model defines the domain types persisted in the moneymate ledger.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownCategory is returned when a category token is not part of the closed set.
var ErrUnknownCategory = errors.New("unknown expense category")

// ExpenseCategory is one of a closed set of spending categories.
type ExpenseCategory string

// Closed category set. Order matters: it is the display and alert ordering.
const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryUtilities     ExpenseCategory = "utilities"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryHealth        ExpenseCategory = "health"
	CategoryHousing       ExpenseCategory = "housing"
	CategoryEducation     ExpenseCategory = "education"
	CategoryOther         ExpenseCategory = "other"
)

// Categories lists every category in enumeration order.
var Categories = []ExpenseCategory{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryShopping,
	CategoryHealth,
	CategoryHousing,
	CategoryEducation,
	CategoryOther,
}

type categoryMeta struct {
	label string
	icon  string
}

var categoryInfo = map[ExpenseCategory]categoryMeta{
	CategoryFood:          {"Food", "🍴"},
	CategoryTransport:     {"Transport", "🚗"},
	CategoryEntertainment: {"Entertainment", "🎬"},
	CategoryUtilities:     {"Utilities", "⚡"},
	CategoryShopping:      {"Shopping", "🛍"},
	CategoryHealth:        {"Health", "♥"},
	CategoryHousing:       {"Housing", "🏠"},
	CategoryEducation:     {"Education", "📖"},
	CategoryOther:         {"Other", "…"},
}

// Label returns the human-readable category name.
func (c ExpenseCategory) Label() string {
	if m, ok := categoryInfo[c]; ok {
		return m.label
	}
	return string(c)
}

// Icon returns the glyph used when rendering the category.
func (c ExpenseCategory) Icon() string {
	if m, ok := categoryInfo[c]; ok {
		return m.icon
	}
	return "?"
}

// Valid reports whether c is part of the closed set.
func (c ExpenseCategory) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// ParseCategory resolves a raw token (case-insensitive) to a category.
func ParseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// CategoryOrOther matches an exact stored token, falling back to CategoryOther.
// Unlike ParseCategory it does not fold case.
func CategoryOrOther(s string) ExpenseCategory {
	if c := ExpenseCategory(s); c.Valid() {
		return c
	}
	return CategoryOther
}

// MarshalText implements encoding.TextMarshaler.
func (c ExpenseCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown tokens are an error,
// which makes a snapshot containing them fail to decode as a whole.
func (c *ExpenseCategory) UnmarshalText(b []byte) error {
	parsed := ExpenseCategory(b)
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(b))
	}
	*c = parsed
	return nil
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}
