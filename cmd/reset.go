package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagResetYes      bool
	flagResetKeepFile bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every expense, goal, limit and setting",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().BoolVar(&flagResetKeepFile, "keep-file", false, "Write an empty snapshot instead of removing the file")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	l := openLedger()
	sum := l.Summary(l.Now())

	if !flagResetYes {
		fmt.Printf("  This removes %d %s, %d %s and %d %s from %s.\n",
			sum.Expenses, plural(sum.Expenses, "expense", "expenses"),
			sum.Goals, plural(sum.Goals, "goal", "goals"),
			sum.Budgets, plural(sum.Budgets, "limit", "limits"),
			l.Path())
		fmt.Print("  Type DELETE to confirm: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "DELETE" {
			return errors.New("reset cancelled")
		}
	}

	l.ClearAll(!flagResetKeepFile)
	infof("  Ledger cleared\n")
	return nil
}
