// Package csvcodec converts expenses and savings goals to and from CSV.
//
// Encoding quotes only fields that contain a comma, quote or newline. Decoding
// is lenient: the header is always skipped, malformed rows are counted and
// skipped, and unparsable values fall back to defaults.
package csvcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/moneymate/internal/model"
)

// Column headers.
const (
	ExpenseHeader = "id,title,amount,date,category,notes"
	GoalHeader    = "id,name,targetAmount,savedAmount,deadline"
)

const (
	expenseColumns = 6
	goalColumns    = 5
)

// Result reports how many data rows were imported and skipped.
type Result struct {
	Imported int
	Skipped  int
}

// EncodeExpenses renders a header and one row per expense, joined by "\n".
func EncodeExpenses(expenses []model.Expense) string {
	rows := make([]string, 0, len(expenses)+1)
	rows = append(rows, ExpenseHeader)
	for _, e := range expenses {
		rows = append(rows, joinRow(
			e.ID,
			e.Title,
			formatAmount(e.Amount),
			formatTime(e.Date),
			string(e.Category),
			e.NotesOrEmpty(),
		))
	}
	return strings.Join(rows, "\n")
}

// EncodeGoals renders a header and one row per goal. A missing deadline is empty.
func EncodeGoals(goals []model.SavingsGoal) string {
	rows := make([]string, 0, len(goals)+1)
	rows = append(rows, GoalHeader)
	for _, g := range goals {
		deadline := ""
		if g.Deadline != nil {
			deadline = formatTime(*g.Deadline)
		}
		rows = append(rows, joinRow(
			g.ID,
			g.Name,
			formatAmount(g.TargetAmount),
			formatAmount(g.SavedAmount),
			deadline,
		))
	}
	return strings.Join(rows, "\n")
}

// Escape quotes a field when it contains a comma, quote or newline.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func joinRow(fields ...string) string {
	for i, f := range fields {
		fields[i] = Escape(f)
	}
	return strings.Join(fields, ",")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DecodeExpenses parses expense rows. now is used for unparsable dates. The
// error is non-nil only when r itself fails.
func DecodeExpenses(r io.Reader, now time.Time) ([]model.Expense, Result, error) {
	var out []model.Expense
	res, err := eachRow(r, expenseColumns, func(cols []string) {
		e := model.Expense{
			ID:       cols[0],
			Title:    cols[1],
			Amount:   parseAmount(cols[2]),
			Date:     parseTime(cols[3], now),
			Category: model.CategoryOrOther(cols[4]),
		}
		if e.ID == "" {
			e.ID = model.NewID()
		}
		if cols[5] != "" {
			notes := cols[5]
			e.Notes = &notes
		}
		out = append(out, e)
	})
	return out, res, err
}

// DecodeGoals parses goal rows. An empty or unparsable deadline is absent.
func DecodeGoals(r io.Reader) ([]model.SavingsGoal, Result, error) {
	var out []model.SavingsGoal
	res, err := eachRow(r, goalColumns, func(cols []string) {
		g := model.SavingsGoal{
			ID:           cols[0],
			Name:         cols[1],
			TargetAmount: parseAmount(cols[2]),
			SavedAmount:  parseAmount(cols[3]),
		}
		if g.ID == "" {
			g.ID = model.NewID()
		}
		if d, err := time.Parse(time.RFC3339, strings.TrimSpace(cols[4])); err == nil {
			g.Deadline = &d
		}
		out = append(out, g)
	})
	return out, res, err
}

func eachRow(r io.Reader, minColumns int, fn func([]string)) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading csv: %w", err)
	}

	var res Result
	header := true
	for _, rec := range splitRecords(string(data)) {
		if header {
			header = false
			continue
		}
		cols, err := parseRecord(rec)
		if err != nil || len(cols) < minColumns {
			res.Skipped++
			continue
		}
		fn(cols)
		res.Imported++
	}
	return res, nil
}

// splitRecords cuts data into records at line breaks. A line with an open
// quote is joined with the following lines only if a later line closes it;
// otherwise it stands alone and the next line starts a fresh record. Blank
// lines are dropped.
func splitRecords(data string) []string {
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	var records []string
	for i := 0; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		end := i
		if quoteOpen(lines[i]) {
			open := true
			for j := i + 1; j < len(lines) && open; j++ {
				if quoteOpen(lines[j]) {
					open = false
					end = j
				}
			}
		}
		records = append(records, strings.Join(lines[i:end+1], "\n"))
		i = end
	}
	return records
}

// quoteOpen reports whether line leaves a quoted field unterminated. Doubled
// quotes cancel out.
func quoteOpen(line string) bool {
	return strings.Count(line, `"`)%2 == 1
}

func parseRecord(rec string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(rec))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	cols, err := reader.Read()
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// parseAmount returns 0 for anything that is not a non-negative finite number.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseTime(s string, fallback time.Time) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return t
}
