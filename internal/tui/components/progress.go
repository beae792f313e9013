package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar followed by the percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 1:
		barColor = t.GoodBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Highlight
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForPct maps limit usage to green, yellow, orange or red.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct > 1:
		return string(t.Danger)
	case pct >= 0.9:
		return string(t.Warn)
	case pct >= 0.5:
		return string(t.Caution)
	default:
		return string(t.Good)
	}
}

func usage(spend, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return spend / limit
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BudgetBar renders "label [bar] pct  $spend / $limit" for a spending limit.
// Without a limit only the spend is shown.
func BudgetBar(label string, spend, limit float64, labelW, barWidth int) string {
	t := theme.Active

	pct := usage(spend, limit)
	color := ColorForPct(pct)

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	head := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + spaceStyle.Render(" ")
	if limit <= 0 {
		return head +
			dimStyle.Render(fmt.Sprintf("%-*s", barWidth+6, "no limit")) +
			amountStyle.Render(cli.FormatMoney(spend))
	}

	return head +
		bar.ViewAs(clamp01(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		amountStyle.Render(cli.FormatMoney(spend)) +
		dimStyle.Render(" / "+cli.FormatMoney(limit))
}

// CompactBudgetBar renders a status-bar sized usage indicator.
func CompactBudgetBar(label string, spend, limit float64, width int) string {
	t := theme.Active

	pct := usage(spend, limit)
	barW := width - lipgloss.Width(label) - 6
	if barW < 4 {
		barW = 4
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		bar.ViewAs(clamp01(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
