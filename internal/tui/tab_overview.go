package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	var b strings.Builder

	// Row 1: metric cards
	todayDelta := "no daily cap"
	todayTone := lipgloss.Color("")
	if sum.DailyMaxSpend > 0 {
		todayDelta = "of " + cli.FormatMoney(sum.DailyMaxSpend) + " cap"
		todayTone = lipgloss.Color(components.ColorForPct(sum.TodaySpend / sum.DailyMaxSpend))
	}

	monthDelta := fmt.Sprintf("%d expense%s", sum.Expenses, plural(sum.Expenses))
	if n := len(a.series); n >= 2 {
		monthDelta = "yesterday " + cli.FormatMoney(a.series[n-2].Total)
	}

	savedDelta := fmt.Sprintf("%d goal%s", sum.Goals, plural(sum.Goals))
	if sum.TargetTotal > 0 {
		savedDelta = fmt.Sprintf("%s of %s", cli.FormatPercent(sum.SavedTotal/sum.TargetTotal), cli.FormatMoney(sum.TargetTotal))
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "This Month", Value: cli.FormatMoney(sum.MonthSpend), Delta: monthDelta},
		{Label: "Today", Value: cli.FormatMoney(sum.TodaySpend), Delta: todayDelta, Tone: todayTone},
		{Label: "Limits", Value: fmt.Sprintf("%d set", sum.Budgets), Delta: a.limitsDelta()},
		{Label: "Saved", Value: cli.FormatMoney(sum.SavedTotal), Delta: savedDelta},
	}, cw))
	b.WriteString("\n")

	// Row 2: alerts and tip
	if banner := a.alertBanner(); banner != "" {
		b.WriteString(components.ContentCard("Alerts", banner, cw))
		b.WriteString("\n")
	}
	tipStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	b.WriteString(components.ContentCard("Tip", tipStyle.Render(a.tip), cw))
	b.WriteString("\n")

	// Row 3: spending by category and the daily series
	labels := make([]string, 0, len(a.totals))
	values := make([]float64, 0, len(a.totals))
	for _, ct := range a.totals {
		labels = append(labels, ct.Category.Icon()+" "+ct.Category.Label())
		values = append(values, ct.Total)
	}

	halves := components.LayoutRow(cw, 2)
	categoryW, dailyW := halves[0], halves[1]
	if a.isCompactLayout() {
		categoryW, dailyW = cw, cw
	}

	categoryCard := components.ContentCard("This Month by Category",
		components.CategoryBars(labels, values, components.CardInnerWidth(categoryW)), categoryW)

	dailyVals := make([]float64, len(a.series))
	for i, d := range a.series {
		dailyVals[i] = d.Total
	}
	dailyCard := components.ContentCard(fmt.Sprintf("Daily Spend (%dd)", seriesDays),
		components.SpendChart(dailyVals, chartDateLabels(a.series), a.summary.DailyMaxSpend, components.CardInnerWidth(dailyW), 8),
		dailyW)

	if a.isCompactLayout() {
		b.WriteString(categoryCard)
		b.WriteString("\n")
		b.WriteString(dailyCard)
	} else {
		b.WriteString(components.CardRow([]string{categoryCard, dailyCard}))
	}

	return b.String()
}

// alertBanner lists the daily alert message and the category banner, colored by severity.
func (a App) alertBanner() string {
	if len(a.alerts) == 0 {
		return ""
	}
	t := theme.Active
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)
	danger := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface).Bold(true)

	var lines []string
	for _, al := range alert.Filter(a.alerts, alert.ScopeDaily, "") {
		style := warn
		if al.Kind == alert.KindExceeded {
			style = danger
		}
		lines = append(lines, style.Render(alert.Message(al)))
	}
	if banner := alert.Banner(a.alerts); banner != "" {
		style := warn
		if len(alert.Filter(a.alerts, alert.ScopeCategory, alert.KindExceeded)) > 0 {
			style = danger
		}
		lines = append(lines, style.Render(banner))
	}
	return strings.Join(lines, "\n")
}

func (a App) limitsDelta() string {
	over, near := 0, 0
	for _, al := range a.alerts {
		if al.Scope != alert.ScopeCategory {
			continue
		}
		if al.Kind == alert.KindExceeded {
			over++
		} else {
			near++
		}
	}
	if over == 0 && near == 0 {
		return "all on track"
	}
	return fmt.Sprintf("%d over · %d near", over, near)
}

// chartDateLabels labels a daily series with short dates at a few spread-out positions.
func chartDateLabels(days []model.DailyTotal) []string {
	labels := make([]string, len(days))
	n := len(days)
	if n == 0 {
		return labels
	}
	step := max(1, n/6)
	for i, d := range days {
		if i%step == 0 || i == n-1 {
			labels[i] = d.Date.Format("Jan 2")
		}
	}
	return labels
}
