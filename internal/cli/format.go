// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats a dollar amount with thousands separators and cents.
// e.g., 1234.5 -> "$1,234.50"
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatCompactMoney drops cents for large values, for tight columns.
func FormatCompactMoney(v float64) string {
	if math.Abs(v) >= 1000 {
		return "$" + FormatNumber(int64(math.Round(v)))
	}
	return FormatMoney(v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a money delta with sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatDate formats a timestamp as a short local date.
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

// FormatRelative formats t relative to now, e.g. "3 days ago".
func FormatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
