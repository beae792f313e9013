package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/entry"
	"github.com/theirongolddev/moneymate/internal/tips"

	"github.com/spf13/cobra"
)

var (
	flagGoalSaved    string
	flagGoalDeadline string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show savings goals and progress",
	RunE:  runGoals,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show savings goals and progress",
	RunE:  runGoals,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <name> <target>",
	Short: "Create a savings goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsAdd,
}

var goalsDepositCmd = &cobra.Command{
	Use:   "deposit <number|id> <amount>",
	Short: "Add money to a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsDeposit,
}

var goalsRmCmd = &cobra.Command{
	Use:   "rm <number|id>...",
	Short: "Delete goals by list number or ID prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalsRm,
}

func init() {
	goalsAddCmd.Flags().StringVar(&flagGoalSaved, "saved", "", "Amount already saved")
	goalsAddCmd.Flags().StringVar(&flagGoalDeadline, "deadline", "", "Target day (YYYY-MM-DD)")

	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsAddCmd)
	goalsCmd.AddCommand(goalsDepositCmd)
	goalsCmd.AddCommand(goalsRmCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	l := openLedger()
	goals := l.Goals()
	if len(goals) == 0 {
		fmt.Println("\n  No savings goals yet.")
		fmt.Println("  Create one with `moneymate goals add \"Vacation\" 1500`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()

	now := l.Now()
	for i, g := range goals {
		progress := g.Progress()
		fmt.Printf("  %d. %s\n", i+1, g.Name)
		fmt.Printf("     %s  %s of %s  %s\n",
			cli.RenderProgressBar(g.SavedAmount, g.TargetAmount, 24),
			cli.FormatMoney(g.SavedAmount),
			cli.FormatMoney(g.TargetAmount),
			cli.FormatPercent(progress),
		)
		if g.Deadline != nil {
			fmt.Printf("     Due %s (%s)\n", cli.FormatDate(*g.Deadline), cli.FormatRelative(*g.Deadline, now))
		}
		if remaining := g.Remaining(); remaining > 0 {
			fmt.Printf("     %s\n", cli.Muted(fmt.Sprintf("Save $%d/week to finish in 12 weeks", tips.WeeklyTarget(remaining))))
		}
		fmt.Printf("     %s\n\n", tips.GoalMessage(progress))
	}
	return nil
}

func runGoalsAdd(_ *cobra.Command, args []string) error {
	l := openLedger()
	g, err := entry.Goal{
		Name:     args[0],
		Target:   args[1],
		Saved:    flagGoalSaved,
		Deadline: flagGoalDeadline,
	}.Build(l.Location())
	if err != nil {
		return err
	}

	l.UpsertGoal(g)
	if err := persist(l); err != nil {
		return err
	}
	infof("  Created goal %s: %s\n", g.Name, cli.FormatMoney(g.TargetAmount))
	return nil
}

func runGoalsDeposit(_ *cobra.Command, args []string) error {
	l := openLedger()
	goals := l.Goals()

	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	indices, err := resolveIndices(args[:1], ids)
	if err != nil {
		return err
	}
	amount, err := entry.ParseAmount(args[1])
	if err != nil {
		return err
	}

	g := goals[indices[0]]
	g.SavedAmount += amount
	l.UpsertGoal(g)
	if err := persist(l); err != nil {
		return err
	}
	infof("  %s: %s of %s (%s)\n", g.Name,
		cli.FormatMoney(g.SavedAmount), cli.FormatMoney(g.TargetAmount), cli.FormatPercent(g.Progress()))
	infof("  %s\n", tips.GoalMessage(g.Progress()))
	return nil
}

func runGoalsRm(_ *cobra.Command, args []string) error {
	l := openLedger()
	goals := l.Goals()

	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	indices, err := resolveIndices(args, ids)
	if err != nil {
		return err
	}

	removed := l.DeleteGoals(indices)
	if err := persist(l); err != nil {
		return err
	}
	infof("  Deleted %d %s\n", removed, plural(removed, "goal", "goals"))
	return nil
}
