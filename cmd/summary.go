package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/tips"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Month-to-date spending, limits and goals",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	l := openLedger()
	now := l.Now()
	sum := l.Summary(now)

	if sum.Expenses == 0 && sum.Goals == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		fmt.Println("  Add one with `moneymate add <title> <amount> -c food`, or run `moneymate tui`.")
		return nil
	}

	prevMonth := now.AddDate(0, -1, 0)
	prevSpend := l.MonthSpend(prevMonth)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONEYMATE  %s", now.Format("January 2006"))))
	fmt.Println()

	monthStr := cli.FormatMoney(sum.MonthSpend)
	if prevSpend > 0 {
		monthStr += fmt.Sprintf("  (%s vs %s)", cli.FormatDelta(sum.MonthSpend, prevSpend), prevMonth.Format("Jan"))
	}

	todayStr := cli.FormatMoney(sum.TodaySpend)
	if sum.DailyMaxSpend > 0 {
		todayStr += " / " + cli.FormatMoney(sum.DailyMaxSpend)
	}

	rows := [][]string{
		{"Expenses", cli.FormatNumber(int64(sum.Expenses))},
		{"This month", monthStr},
		{"Today", todayStr},
		{"---"},
		{"Limits set", cli.FormatNumber(int64(sum.Budgets))},
	}

	alerts := l.Alerts(threshold(), now)
	rows = append(rows, []string{"Alerts", cli.FormatNumber(int64(len(alerts)))})

	rows = append(rows,
		[]string{"---"},
		[]string{"Goals", cli.FormatNumber(int64(sum.Goals))},
	)
	if sum.TargetTotal > 0 {
		rows = append(rows, []string{"Saved", fmt.Sprintf("%s of %s (%s)",
			cli.FormatMoney(sum.SavedTotal), cli.FormatMoney(sum.TargetTotal),
			cli.FormatPercent(sum.SavedTotal/sum.TargetTotal))})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if totals := l.CategoryTotals(now); len(totals) > 0 {
		fmt.Println()
		peak := 0.0
		for _, ct := range totals {
			peak = max(peak, ct.Total)
		}
		for _, ct := range totals {
			fmt.Println(cli.RenderHorizontalBar(ct.Category.Label(), ct.Total, peak, 30))
		}
	}

	series := l.DailySeries(14, now)
	values := make([]float64, len(series))
	for i, d := range series {
		values[i] = d.Total
	}
	for _, a := range alerts {
		fmt.Printf("  %s\n", alertText(a))
	}

	fmt.Printf("\n  Last 14 days  %s\n", cli.RenderSparkline(values))
	fmt.Printf("\n  Tip: %s\n\n", tips.SimpleTip(l, now))
	return nil
}

func alertText(a alert.Alert) string {
	msg := alert.Message(a)
	if a.Kind == alert.KindExceeded {
		return cli.Danger(msg)
	}
	return cli.Warn(msg)
}
