package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/entry"

	"github.com/spf13/cobra"
)

var (
	flagAddCategory string
	flagAddDate     string
	flagAddNotes    string
	flagAddForce    bool
)

// errOverDailyCap aborts an add that would trip the daily cap without --force.
var errOverDailyCap = errors.New("expense would trip the daily limit; rerun with --force to record it anyway")

var addCmd = &cobra.Command{
	Use:   "add <title> <amount>",
	Short: "Record an expense",
	Example: `  moneymate add "Lunch" 12.50 -c food
  moneymate add Rent 1200 -c housing --date 2024-03-01`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "other", "Expense category")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Day of the expense (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&flagAddNotes, "notes", "", "Free-form notes")
	addCmd.Flags().BoolVar(&flagAddForce, "force", false, "Record even when the daily limit would be reached")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	l := openLedger()
	now := l.Now()

	e, err := entry.Expense{
		Title:    args[0],
		Amount:   args[1],
		Category: flagAddCategory,
		Date:     flagAddDate,
		Notes:    flagAddNotes,
	}.Build(now, l.Location())
	if err != nil {
		return err
	}

	th := threshold()
	if appConfig.Alerts.Enabled {
		// A daily alert always sorts first.
		if prospective := alert.Prospective(l, e, now, th); alert.HasDaily(prospective) {
			fmt.Printf("  %s\n", alertText(prospective[0]))
			if !flagAddForce {
				return errOverDailyCap
			}
		}
	}

	l.AddExpense(e)
	if err := persist(l); err != nil {
		return err
	}

	infof("  Added %s: %s (%s)\n", e.Title, cli.FormatMoney(e.Amount), e.Category.Label())

	if appConfig.Alerts.Enabled {
		for _, a := range alert.Filter(l.Alerts(th, now), alert.ScopeCategory, "") {
			if a.Category == e.Category {
				fmt.Printf("  %s\n", alertText(a))
			}
		}
	}
	return nil
}
