package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/model"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show this month's spend against category limits",
	RunE:  runBudget,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show this month's spend against category limits",
	RunE:  runBudget,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <category> <amount>",
	Short: "Set a category's monthly limit (0 clears it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetSet,
}

var budgetDailyCmd = &cobra.Command{
	Use:   "daily <amount>",
	Short: "Set the daily spending cap (0 disables it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetDaily,
}

func init() {
	budgetCmd.AddCommand(budgetShowCmd)
	budgetCmd.AddCommand(budgetSetCmd)
	budgetCmd.AddCommand(budgetDailyCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	l := openLedger()
	now := l.Now()
	th := threshold()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", now.Format("January 2006"))))
	fmt.Println()

	daily := l.Settings().DailyMaxSpend
	today := l.TodaySpend(now)
	if daily > 0 {
		fmt.Printf("  %-14s %s  %s / %s\n\n", "Today",
			cli.RenderProgressBar(today, daily, 24), cli.FormatMoney(today), cli.FormatMoney(daily))
	} else {
		fmt.Printf("  %-14s %s  %s\n\n", "Today", cli.Muted("no daily cap"), cli.FormatMoney(today))
	}

	for _, st := range l.BudgetStatuses(now) {
		label := fmt.Sprintf("%s %s", st.Category.Icon(), st.Category.Label())
		if st.Limit <= 0 {
			fmt.Printf("  %-16s %s  %s\n", label, cli.RenderProgressBar(0, 0, 24),
				cli.Muted(cli.FormatMoney(st.Spend)+" (no limit)"))
			continue
		}
		line := fmt.Sprintf("%s / %s", cli.FormatMoney(st.Spend), cli.FormatMoney(st.Limit))
		switch alert.Classify(st.Spend, st.Limit, th) {
		case alert.LevelExceeded:
			line = cli.Danger(line + "  over")
		case alert.LevelNearing:
			line = cli.Warn(line + "  nearing")
		}
		fmt.Printf("  %-16s %s  %s\n", label, cli.RenderProgressBar(st.Spend, st.Limit, 24), line)
	}

	fmt.Printf("\n  %s\n\n", cli.Muted(fmt.Sprintf("Alerts at %.0f%% of a limit. Set one with `moneymate budget set food 400`.", th*100)))
	return nil
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	l := openLedger()
	category, amount, err := entry.Limit{Category: args[0], Amount: args[1]}.Build()
	if err != nil {
		return err
	}

	limit := model.NewBudgetLimit(category, amount)
	if existing, ok := l.BudgetFor(category); ok {
		limit.ID = existing.ID
	}
	l.UpsertBudget(limit)
	if err := persist(l); err != nil {
		return err
	}

	if amount == 0 {
		infof("  Cleared %s limit\n", category.Label())
		return nil
	}
	infof("  %s limit set to %s\n", category.Label(), cli.FormatMoney(amount))
	for _, a := range alert.Filter(l.Alerts(threshold(), l.Now()), alert.ScopeCategory, "") {
		if a.Category == category {
			fmt.Printf("  %s\n", alertText(a))
		}
	}
	return nil
}

func runBudgetDaily(_ *cobra.Command, args []string) error {
	l := openLedger()
	amount, err := entry.ParseAmount(args[0])
	if err != nil {
		return err
	}
	l.SetDailyMaxSpend(amount)
	if err := persist(l); err != nil {
		return err
	}
	if amount == 0 {
		infof("  Daily cap disabled\n")
		return nil
	}
	infof("  Daily cap set to %s (spent today: %s)\n", cli.FormatMoney(amount), cli.FormatMoney(l.TodaySpend(l.Now())))
	return nil
}
