package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldDailyCap = iota
	settingsFieldThreshold
	settingsFieldTheme
	settingsFieldCount
)

var errBadThreshold = errors.New("threshold must be a percentage between 1 and 100")

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldDailyCap:
		ti.Placeholder = "40 (empty or 0 removes the cap)"
		if a.summary.DailyMaxSpend > 0 {
			ti.SetValue(strconv.FormatFloat(a.summary.DailyMaxSpend, 'f', -1, 64))
		}
	case settingsFieldThreshold:
		ti.Placeholder = "90"
		ti.SetValue(strconv.FormatFloat(a.threshold*100, 'f', -1, 64))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		a.recompute()
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field. The daily cap lives in the ledger;
// threshold and theme live in the config file.
func (a *App) settingsSave() error {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldDailyCap:
		capValue := 0.0
		if val != "" {
			v, err := entry.ParseAmount(val)
			if err != nil {
				return err
			}
			capValue = v
		}
		a.ledger.SetDailyMaxSpend(capValue)
		return nil

	case settingsFieldThreshold:
		pct, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64)
		if err != nil || pct < 1 || pct > 100 {
			return errBadThreshold
		}
		a.threshold = pct / 100
		a.cfg.Alerts.NearingThreshold = a.threshold

	case settingsFieldTheme:
		if !theme.Valid(val) {
			return fmt.Errorf("unknown theme %q", val)
		}
		theme.SetActive(val)
		a.cfg.Appearance.Theme = val
	}

	return a.saveConfig(a.cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.GoodBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	dailyCap := "(none)"
	if a.summary.DailyMaxSpend > 0 {
		dailyCap = cli.FormatMoney(a.summary.DailyMaxSpend)
	}

	fields := []struct{ label, value string }{
		{"Daily Cap", dailyCap},
		{"Nearing Threshold", fmt.Sprintf("%.0f%%", a.threshold*100)},
		{"Theme", theme.Active.Name},
	}

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-20s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-20s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := components.CardInnerWidth(cw) - used; pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(goodStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Data file:    ") + valueStyle.Render(a.ledger.Path()) + "\n")
	info.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()) + "\n")
	info.WriteString(labelStyle.Render("Expenses:     ") + valueStyle.Render(cli.FormatNumber(int64(a.summary.Expenses))) + "\n")
	info.WriteString(labelStyle.Render("Goals:        ") + valueStyle.Render(cli.FormatNumber(int64(a.summary.Goals))) + "\n")
	info.WriteString(labelStyle.Render("Load time:    ") + valueStyle.Render(a.loadTime.String()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Storage", info.String(), cw))
	return b.String()
}
