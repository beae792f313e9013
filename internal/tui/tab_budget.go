package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderBudgetTab shows the daily cap and every category's month-to-date spend
// against its limit.
func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const labelW = 16
	barW := inner - labelW - 40
	if barW > 50 {
		barW = 50
	}
	if barW < 10 {
		barW = 10
	}

	var daily strings.Builder
	daily.WriteString(components.BudgetBar("Today", a.summary.TodaySpend, a.summary.DailyMaxSpend, labelW, barW))
	daily.WriteString("\n")
	daily.WriteString(dimStyle.Render("[c] set the daily cap"))

	var body strings.Builder
	for i, st := range a.statuses {
		marker := space.Render("  ")
		if i == a.budgetState.cursor {
			marker = markerStyle.Render("▸ ")
		}
		body.WriteString(marker)
		body.WriteString(components.BudgetBar(st.Category.Icon()+" "+st.Category.Label(), st.Spend, st.Limit, labelW, barW))
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(dimStyle.Render(fmt.Sprintf("Nearing alerts start at %s of a limit · [Enter] edit limit (0 removes it)",
		cli.FormatPercent(a.threshold))))

	var b strings.Builder
	b.WriteString(components.ContentCard("Daily Cap", daily.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Monthly Limits · "+cli.FormatMoney(a.summary.MonthSpend)+" spent", body.String(), cw))
	return b.String()
}
