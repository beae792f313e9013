package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderExpensesTab shows the expense list, newest first, beside the selected expense.
func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(a.expenses) == 0 {
		return components.ContentCard("Expenses", mutedStyle.Render("No expenses yet. Press [a] to add one."), cw)
	}

	listW := cw * 3 / 5
	detailW := cw - listW
	if a.isCompactLayout() {
		listW, detailW = cw, 0
	}

	list := a.renderExpenseList(listW, h)
	if detailW == 0 {
		return list
	}
	sel := a.expenses[a.expState.cursor]
	detail := components.ContentCard("Details", a.renderExpenseDetail(sel), detailW)
	return components.CardRow([]string{list, detail})
}

func (a App) renderExpenseList(w, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	loc := a.ledger.Location()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	const dateW, amountW = 12, 12
	catW := 15
	titleW := inner - dateW - amountW - catW - 3
	if titleW < 8 {
		catW = 3
		titleW = inner - dateW - amountW - catW - 3
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s",
		dateW, "Date", titleW, "Title", catW, "Category", amountW, "Amount")))
	body.WriteString("\n")

	visible := h - 5 // border, title, header row, hint
	start, end := a.expState.window(len(a.expenses), visible)
	for i := start; i < end; i++ {
		e := a.expenses[i]
		cat := e.Category.Icon() + " " + e.Category.Label()
		if catW < 8 {
			cat = e.Category.Icon()
		}
		line := fmt.Sprintf("%-*s %-*s %-*s %*s",
			dateW, e.Date.In(loc).Format("Jan 02 15:04"),
			titleW, truncStr(e.Title, titleW),
			catW, truncStr(cat, catW),
			amountW, cli.FormatMoney(e.Amount))

		style := rowStyle
		if i == a.expState.cursor {
			style = selectedStyle.Width(inner)
		}
		body.WriteString(style.Render(line))
		body.WriteString("\n")
	}

	title := fmt.Sprintf("Expenses (%d) · this month %s", len(a.expenses), cli.FormatMoney(a.summary.MonthSpend))
	return components.ContentCard(title, strings.TrimRight(body.String(), "\n"), w)
}

func (a App) renderExpenseDetail(e model.Expense) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	now := a.ledger.Now()
	rows := []struct{ label, value string }{
		{"Title", e.Title},
		{"Category", e.Category.Icon() + " " + e.Category.Label()},
		{"Date", cli.FormatDate(e.Date.In(a.ledger.Location()))},
		{"When", cli.FormatRelative(e.Date, now)},
	}

	var b strings.Builder
	b.WriteString(amountStyle.Render(cli.FormatMoney(e.Amount)))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", r.label)))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	if notes := e.NotesOrEmpty(); notes != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Notes"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(notes))
	}
	return strings.TrimRight(b.String(), "\n")
}
