package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/moneymate/internal/csvcodec"
	"github.com/theirongolddev/moneymate/internal/ledger"

	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"

	kindExpenses = "expenses"
	kindGoals    = "goals"
)

var (
	flagExportFormat string
	flagExportKind   string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as a JSON snapshot or CSV",
	Example: `  moneymate export > backup.json
  moneymate export --format csv --kind goals -o goals.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", formatJSON, "Output format: json or csv")
	exportCmd.Flags().StringVar(&flagExportKind, "kind", kindExpenses, "CSV content: expenses or goals")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	l := openLedger()

	var w io.Writer = os.Stdout
	if flagExportOutput != "" {
		//nolint:gosec // export path is chosen by the local user
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := writeExport(w, l, flagExportFormat, flagExportKind); err != nil {
		return err
	}
	if flagExportOutput != "" {
		fmt.Fprintf(os.Stderr, "  Exported to %s\n", flagExportOutput)
	}
	return nil
}

func writeExport(w io.Writer, l *ledger.Store, format, kind string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		if err := l.WriteBundle(w); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		return nil
	case formatCSV:
		var doc string
		switch strings.ToLower(kind) {
		case kindExpenses:
			doc = csvcodec.EncodeExpenses(l.Expenses())
		case kindGoals:
			doc = csvcodec.EncodeGoals(l.Goals())
		default:
			return fmt.Errorf("unknown export kind %q (want expenses or goals)", kind)
		}
		if _, err := io.WriteString(w, doc+"\n"); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want json or csv)", format)
	}
}
