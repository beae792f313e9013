package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/moneymate/internal/csvcodec"
	"github.com/theirongolddev/moneymate/internal/ledger"

	"github.com/spf13/cobra"
)

var (
	flagImportFormat string
	flagImportKind   string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge expenses and goals from a JSON snapshot or CSV file",
	Long: `Merge records from a file into the ledger. Nothing is replaced: rows are
added, and IDs that are already taken get fresh ones. CSV rows with too few
columns are skipped; unknown categories become "other".`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportFormat, "format", "", "Input format: json or csv (default from file extension)")
	importCmd.Flags().StringVar(&flagImportKind, "kind", kindExpenses, "CSV content: expenses or goals")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	//nolint:gosec // import path is chosen by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	format := strings.ToLower(flagImportFormat)
	if format == "" {
		format = formatJSON
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = formatCSV
		}
	}

	l := openLedger()
	var summary string
	switch format {
	case formatJSON:
		b, err := ledger.DecodeBundle(data)
		if err != nil {
			return err
		}
		ne := l.ImportExpenses(b.Expenses)
		ng := l.ImportGoals(b.Goals)
		summary = fmt.Sprintf("Imported %d %s and %d %s", ne, plural(ne, "expense", "expenses"), ng, plural(ng, "goal", "goals"))
	case formatCSV:
		res, err := importCSV(l, data, flagImportKind)
		if err != nil {
			return err
		}
		summary = fmt.Sprintf("Imported %d %s", res.Imported, flagImportKind)
		if res.Skipped > 0 {
			summary += fmt.Sprintf(", skipped %d malformed %s", res.Skipped, plural(res.Skipped, "row", "rows"))
		}
	default:
		return fmt.Errorf("unknown import format %q (want json or csv)", format)
	}

	if err := persist(l); err != nil {
		return err
	}
	infof("  %s\n", summary)
	return nil
}

func importCSV(l *ledger.Store, data []byte, kind string) (csvcodec.Result, error) {
	switch strings.ToLower(kind) {
	case kindExpenses:
		expenses, res, err := csvcodec.DecodeExpenses(bytes.NewReader(data), l.Now())
		if err != nil {
			return res, fmt.Errorf("decoding expenses: %w", err)
		}
		l.ImportExpenses(expenses)
		return res, nil
	case kindGoals:
		goals, res, err := csvcodec.DecodeGoals(bytes.NewReader(data))
		if err != nil {
			return res, fmt.Errorf("decoding goals: %w", err)
		}
		l.ImportGoals(goals)
		return res, nil
	default:
		return csvcodec.Result{}, fmt.Errorf("unknown import kind %q (want expenses or goals)", kind)
	}
}
