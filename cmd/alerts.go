package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/moneymate/internal/alert"

	"github.com/spf13/cobra"
)

var flagAlertsJSON bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List active daily and category budget alerts",
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().BoolVar(&flagAlertsJSON, "json", false, "Print alerts as JSON")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(_ *cobra.Command, _ []string) error {
	l := openLedger()
	alerts := l.Alerts(threshold(), l.Now())

	if flagAlertsJSON {
		if alerts == nil {
			alerts = []alert.Alert{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(alerts)
	}

	if len(alerts) == 0 {
		fmt.Println("  No active alerts. Spending is within every limit.")
		return nil
	}
	if banner := alert.Banner(alerts); banner != "" {
		fmt.Printf("\n  %s\n\n", banner)
	}
	for _, a := range alerts {
		fmt.Printf("  %s\n", alertText(a))
	}
	return nil
}
