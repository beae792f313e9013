package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/tips"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderGoalsTab lists savings goals with a progress bar and encouragement each.
func (a App) renderGoalsTab(cw, h int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(a.goals) == 0 {
		return components.ContentCard("Savings Goals", mutedStyle.Render("No goals yet. Press [a] to add one."), cw)
	}

	inner := components.CardInnerWidth(cw)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	loc := a.ledger.Location()

	barW := inner - 8
	if barW > 60 {
		barW = 60
	}
	if barW < 10 {
		barW = 10
	}

	const rowsPerGoal = 4
	visible := (h - 3) / rowsPerGoal
	start, end := a.goalState.window(len(a.goals), visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		g := a.goals[i]
		marker, style := "  ", nameStyle
		if i == a.goalState.cursor {
			marker, style = "▸ ", selectedStyle
		}

		head := fmt.Sprintf("%s%s  %s / %s", marker, g.Name, cli.FormatMoney(g.SavedAmount), cli.FormatMoney(g.TargetAmount))
		if g.Deadline != nil {
			head += "  by " + cli.FormatDate(g.Deadline.In(loc))
		}
		b.WriteString(style.Render(head))
		b.WriteString("\n  ")
		b.WriteString(components.ProgressBar(g.Progress(), barW))
		b.WriteString("\n")

		note := tips.GoalMessage(g.Progress())
		if rem := g.Remaining(); rem > 0 {
			note += fmt.Sprintf(" Save ~$%d/wk for 12 weeks to get there.", tips.WeeklyTarget(rem))
		}
		b.WriteString(dimStyle.Render("  " + note))
		b.WriteString("\n\n")
	}

	title := fmt.Sprintf("Savings Goals (%d) · %s saved", len(a.goals), cli.FormatMoney(a.summary.SavedTotal))
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), cw)
}
