package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/tips"

	"github.com/spf13/cobra"
)

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Print a savings suggestion based on this month's spending",
	RunE:  runTip,
}

func init() {
	rootCmd.AddCommand(tipCmd)
}

func runTip(_ *cobra.Command, _ []string) error {
	l := openLedger()
	fmt.Printf("  %s\n", tips.SimpleTip(l, l.Now()))
	return nil
}
