// Package cmd implements the moneymate CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file:   %s\n", config.GetDataFile(cfg))
	fmt.Println()

	fmt.Println("  [Autosave]")
	fmt.Printf("    Debounce:    %s\n", cfg.AutosaveDelay())
	fmt.Println()

	fmt.Println("  [Alerts]")
	fmt.Printf("    Enabled:     %v\n", cfg.Alerts.Enabled)
	fmt.Printf("    Threshold:   %.0f%%\n", cfg.Alerts.NearingThreshold*100)
	fmt.Printf("    Debounce:    %s\n", cfg.NotifyDelay())
	if cfg.Alerts.ReminderHour >= 0 {
		fmt.Printf("    Reminder:    %02d:00 daily\n", cfg.Alerts.ReminderHour)
	} else {
		fmt.Println("    Reminder:    off")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:     http://%s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll every:  %s\n", cfg.PollInterval())
	fmt.Printf("    Events kept: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Queue:       %s\n", config.GetQueuePath(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  Run `moneymate setup` to reconfigure.")
	return nil
}
