package components

import (
	"strings"

	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left, info on the right.
// A non-empty flash replaces the hints.
func RenderStatusBar(width int, hints, flash, info string) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" " + hints)
	if flash != "" {
		left = flashStyle.Render(" " + flash)
	}
	right := ""
	if info != "" {
		right = infoStyle.Render(info + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(0, width-lipgloss.Width(left))
	}

	return barStyle.MaxWidth(width).Render(left + barStyle.Render(strings.Repeat(" ", gap)) + right)
}
