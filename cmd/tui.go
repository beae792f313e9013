package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/notify"
	"github.com/theirongolddev/moneymate/internal/store"
	"github.com/theirongolddev/moneymate/internal/tui"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The app loads the snapshot itself once the first frame is up.
	l := ledger.New(config.GetDataFile(cfg), ledger.WithLogger(logger))
	stopAutosave := l.StartAutosave(cfg.AutosaveDelay())
	defer stopAutosave()

	if cfg.Alerts.Enabled {
		q, err := store.Open(config.GetQueuePath(cfg))
		if err != nil {
			logger.Warn("notification queue unavailable", "path", config.GetQueuePath(cfg), "error", err)
		} else {
			defer func() { _ = q.Close() }()
			q.SetLocation(l.Location())
			coord := notify.NewCoordinator(l, q, notify.CoordinatorConfig{
				Threshold: threshold(),
				Debounce:  cfg.NotifyDelay(),
				Logger:    logger,
			})
			stopCoord := coord.Start()
			defer stopCoord()
			if cfg.Alerts.ReminderHour >= 0 {
				if err := coord.ScheduleDailyReminder(cfg.Alerts.ReminderHour); err != nil {
					logger.Warn("scheduling daily reminder", "error", err)
				}
			}
		}
	}

	app := tui.NewApp(l, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
