package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SpendChart renders daily spend as vertical bars, oldest first, in height rows
// plus an axis and a first/last date line. A positive dailyCap is drawn as a
// dashed line and days above it use the danger color. When the bars do not
// fit, the most recent days are kept.
func SpendChart(values []float64, labels []string, dailyCap float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return spark(values, t.Chart)
	}

	top := dailyCap
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		top = 1
	}
	step := chartTickStep(top)
	ceiling := math.Ceil(top/step) * step

	topLabel := formatChartLabel(ceiling)
	labelW := max(4, len(topLabel)+1)
	if dailyCap > 0 {
		labelW = max(labelW, len(formatChartLabel(dailyCap))+1)
	}
	chartW := max(5, width-labelW-1)

	haveLabels := len(labels) == len(values)
	barW := 2
	if len(values)*(barW+1)-1 > chartW {
		barW = 1
	}
	if fit := (chartW + 1) / (barW + 1); len(values) > fit {
		drop := len(values) - fit
		values = values[drop:]
		if haveLabels {
			labels = labels[drop:]
		}
	}
	n := len(values)
	axisLen := n*(barW+1) - 1

	capRow := -1
	if dailyCap > 0 {
		capRow = max(1, int(math.Round(dailyCap/ceiling*float64(height))))
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	under := lipgloss.NewStyle().Foreground(t.Chart).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface)
	capLine := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = topLabel
		case capRow:
			label = formatChartLabel(dailyCap)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, label)))

		for i, v := range values {
			if i > 0 {
				if row == capRow {
					b.WriteString(capLine.Render("╌"))
				} else {
					b.WriteString(bg.Render(" "))
				}
			}
			style := under
			if dailyCap > 0 && v > dailyCap {
				style = over
			}
			switch {
			case v >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := min(max(int((v-rowBottom)/(rowTop-rowBottom)*8), 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(eighths[idx]), barW)))
			case row == capRow:
				b.WriteString(capLine.Render(strings.Repeat("╌", barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", axisLen))))
	if haveLabels {
		first, last := labels[0], labels[n-1]
		if len(first) > axisLen {
			first = first[:axisLen]
		}
		line := first
		if pad := axisLen - len(first) - len(last); n > 1 && pad >= 1 {
			line += strings.Repeat(" ", pad) + last
		}
		b.WriteString("\n")
		b.WriteString(bg.Render(strings.Repeat(" ", labelW+1)))
		b.WriteString(axis.Render(line))
	}
	return b.String()
}

// spark is the one-line fallback for areas too small for SpendChart.
func spark(values []float64, color lipgloss.Color) string {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}
	var buf strings.Builder
	for _, v := range values {
		idx := min(max(int(v/peak*7)+1, 1), 8)
		buf.WriteRune(eighths[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("$%.0fM", v/1e6)
		}
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// CategoryBars renders one horizontal bar per row, scaled to the largest value.
// Rows with a zero value are skipped.
func CategoryBars(labels []string, values []float64, width int) string {
	t := theme.Active
	if len(labels) != len(values) || len(values) == 0 {
		return ""
	}

	peak := 0.0
	labelW := 0
	for i, v := range values {
		if v > peak {
			peak = v
		}
		if w := lipgloss.Width(labels[i]); w > labelW {
			labelW = w
		}
	}
	if peak == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No spending yet")
	}

	barMax := width - labelW - 14
	if barMax < 5 {
		barMax = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var rows []string
	for i, v := range values {
		if v <= 0 {
			continue
		}
		n := int(math.Round(v / peak * float64(barMax)))
		if n < 1 {
			n = 1
		}
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-*s", labelW, labels[i]))+
			space.Render(" ")+
			barStyle.Render(strings.Repeat("█", n))+
			space.Render(strings.Repeat(" ", barMax-n+1))+
			valueStyle.Render(formatChartLabel(v)))
	}
	return strings.Join(rows, "\n")
}
