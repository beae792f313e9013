package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file so flag overrides are not written back.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	l := openLedger()

	dailyCap := ""
	if v := l.Settings().DailyMaxSpend; v > 0 {
		dailyCap = strconv.FormatFloat(v, 'f', -1, 64)
	}
	thresholdPct := int(threshold()*100 + 0.5)
	reminder := cfg.Alerts.ReminderHour
	themeName := cfg.Appearance.Theme
	alertsOn := cfg.Alerts.Enabled

	fmt.Println()
	fmt.Println("  Welcome to moneymate!")
	if n := len(l.Expenses()); n > 0 {
		fmt.Printf("  Found %s expenses in %s\n", cli.FormatNumber(int64(n)), l.Path())
	}
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily spending cap").
				Description("Leave empty for no cap.").
				Prompt("$ ").
				Value(&dailyCap).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := entry.ParseAmount(s)
					return err
				}),
			huh.NewConfirm().
				Title("Budget alerts").
				Description("Warn when spending nears or passes a limit.").
				Value(&alertsOn),
			huh.NewSelect[int]().
				Title("Warn at").
				Options(
					huh.NewOption("75% of a limit", 75),
					huh.NewOption("80% of a limit", 80),
					huh.NewOption("90% of a limit", 90),
					huh.NewOption("95% of a limit", 95),
				).
				Value(&thresholdPct),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Daily savings reminder").
				Options(reminderOptions()...).
				Value(&reminder),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing changed.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	capValue := 0.0
	if dailyCap != "" {
		capValue, _ = entry.ParseAmount(dailyCap)
	}
	l.UpdateSettings(model.AppSettings{DailyMaxSpend: capValue, HasSeenOnboarding: true})
	if err := persist(l); err != nil {
		return err
	}

	cfg.Alerts.Enabled = alertsOn
	cfg.Alerts.NearingThreshold = float64(thresholdPct) / 100
	cfg.Alerts.ReminderHour = reminder
	cfg.Appearance.Theme = themeName
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `moneymate setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func reminderOptions() []huh.Option[int] {
	opts := []huh.Option[int]{huh.NewOption("Off", -1)}
	for h := 7; h <= 21; h++ {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%02d:00", h), h))
	}
	return opts
}
