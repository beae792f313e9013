package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagExpMonth    string
	flagExpCategory string
	flagExpSearch   string
	flagExpLimit    int
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"ls"},
	Short:   "List recorded expenses, newest first",
	RunE:    runExpenses,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded expenses, newest first",
	RunE:  runExpenses,
}

var expensesRmCmd = &cobra.Command{
	Use:   "rm <number|id>...",
	Short: "Delete expenses by list number or ID prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExpensesRm,
}

func init() {
	for _, c := range []*cobra.Command{expensesCmd, expensesListCmd} {
		c.Flags().StringVar(&flagExpMonth, "month", "", "Only this month (YYYY-MM, or \"current\")")
		c.Flags().StringVarP(&flagExpCategory, "category", "c", "", "Only this category")
		c.Flags().StringVarP(&flagExpSearch, "search", "s", "", "Title substring (case-insensitive)")
		c.Flags().IntVarP(&flagExpLimit, "limit", "n", 50, "Maximum rows shown (0 for all)")
	}
	expensesCmd.AddCommand(expensesListCmd)
	expensesCmd.AddCommand(expensesRmCmd)
	rootCmd.AddCommand(expensesCmd)
}

func runExpenses(_ *cobra.Command, _ []string) error {
	l := openLedger()
	all := l.Expenses()
	if len(all) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		return nil
	}

	filtered := all
	if flagExpMonth != "" {
		at := l.Now()
		if flagExpMonth != "current" {
			m, err := time.ParseInLocation("2006-01", flagExpMonth, l.Location())
			if err != nil {
				return fmt.Errorf("invalid --month %q: want YYYY-MM", flagExpMonth)
			}
			at = m
		}
		since, until := pipeline.MonthRange(at, l.Location())
		filtered = pipeline.FilterByTime(filtered, since, until)
	}
	if flagExpCategory != "" {
		c, err := model.ParseCategory(flagExpCategory)
		if err != nil {
			return err
		}
		filtered = pipeline.FilterByCategory(filtered, c)
	}
	if flagExpSearch != "" {
		filtered = pipeline.FilterByTitle(filtered, flagExpSearch)
	}

	if len(filtered) == 0 {
		fmt.Println("\n  No expenses match.")
		return nil
	}

	// Numbers refer to the unfiltered list so `expenses rm` accepts them as shown.
	position := make(map[string]int, len(all))
	for i, e := range all {
		position[e.ID] = i + 1
	}

	shown := filtered
	if flagExpLimit > 0 && len(shown) > flagExpLimit {
		shown = shown[:flagExpLimit]
	}

	rows := make([][]string, 0, len(shown)+2)
	for _, e := range shown {
		rows = append(rows, []string{
			strconv.Itoa(position[e.ID]),
			e.Date.In(l.Location()).Format("2006-01-02"),
			truncate(e.Title, 28),
			e.Category.Label(),
			cli.FormatMoney(e.Amount),
		})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"", "", fmt.Sprintf("%d shown of %d", len(shown), len(filtered)), "Total", cli.FormatMoney(pipeline.Sum(filtered))},
	)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Expenses",
		Headers: []string{"#", "Date", "Title", "Category", "Amount"},
		Rows:    rows,
	}))
	return nil
}

func runExpensesRm(_ *cobra.Command, args []string) error {
	l := openLedger()
	all := l.Expenses()

	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	indices, err := resolveIndices(args, ids)
	if err != nil {
		return err
	}

	removed := l.DeleteExpenses(indices)
	if removed == 0 {
		return fmt.Errorf("no matching expenses")
	}
	if err := persist(l); err != nil {
		return err
	}
	infof("  Deleted %d %s\n", removed, plural(removed, "expense", "expenses"))
	return nil
}

// resolveIndices maps 1-based list numbers or unique ID prefixes to
// 0-based positions in ids.
func resolveIndices(args []string, ids []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(ids) {
				return nil, fmt.Errorf("no entry numbered %d", n)
			}
			indices = append(indices, n-1)
			continue
		}

		match := -1
		for i, id := range ids {
			if strings.HasPrefix(id, arg) {
				if match >= 0 {
					return nil, fmt.Errorf("ID prefix %q is ambiguous", arg)
				}
				match = i
			}
		}
		if match < 0 {
			return nil, fmt.Errorf("no entry with ID %q", arg)
		}
		indices = append(indices, match)
	}
	return indices, nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
