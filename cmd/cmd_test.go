package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/csvcodec"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/model"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestLedger() *ledger.Store {
	return ledger.New("",
		ledger.WithClock(func() time.Time { return testNow }),
		ledger.WithLocation(time.UTC),
	)
}

func TestResolveIndices(t *testing.T) {
	ids := []string{"aaa-1", "bbb-2", "bbb-3"}

	got, err := resolveIndices([]string{"1", "3"}, ids)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	got, err = resolveIndices([]string{"aaa"}, ids)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)

	got, err = resolveIndices([]string{"bbb-3"}, ids)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)
}

func TestResolveIndicesRejects(t *testing.T) {
	ids := []string{"aaa-1", "bbb-2", "bbb-3"}

	_, err := resolveIndices([]string{"0"}, ids)
	assert.ErrorContains(t, err, "no entry numbered 0")

	_, err = resolveIndices([]string{"4"}, ids)
	assert.Error(t, err)

	_, err = resolveIndices([]string{"bbb"}, ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveIndices([]string{"zzz"}, ids)
	assert.ErrorContains(t, err, "no entry with ID")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestWriteExportCSV(t *testing.T) {
	l := newTestLedger()
	l.AddExpense(model.NewExpense("Lunch, with team", 12.5, testNow, model.CategoryFood, ""))

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, l, "csv", "expenses"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, csvcodec.ExpenseHeader, lines[0])
	assert.Contains(t, lines[1], `"Lunch, with team"`)
}

func TestWriteExportJSONRoundTrip(t *testing.T) {
	l := newTestLedger()
	l.AddExpense(model.NewExpense("Bus", 2.75, testNow, model.CategoryTransport, ""))
	l.UpsertGoal(model.NewSavingsGoal("Trip", 1000, 100, nil))

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, l, "JSON", ""))

	b, err := ledger.DecodeBundle(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, b.Expenses, 1)
	require.Len(t, b.Goals, 1)
	assert.Equal(t, "Bus", b.Expenses[0].Title)
	assert.Equal(t, "Trip", b.Goals[0].Name)
}

func TestWriteExportRejectsUnknown(t *testing.T) {
	l := newTestLedger()
	var buf bytes.Buffer
	assert.ErrorContains(t, writeExport(&buf, l, "xml", ""), "unknown export format")
	assert.ErrorContains(t, writeExport(&buf, l, "csv", "budgets"), "unknown export kind")
}

func TestImportCSVGoals(t *testing.T) {
	l := newTestLedger()
	doc := csvcodec.GoalHeader + "\n" +
		",Laptop,1200,300,\n" +
		"short,row\n"

	res, err := importCSV(l, []byte(doc), "goals")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	goals := l.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, "Laptop", goals[0].Name)
	assert.NotEmpty(t, goals[0].ID)
}

func TestImportCSVExpensesRekeysTakenIDs(t *testing.T) {
	l := newTestLedger()
	existing := model.NewExpense("Coffee", 4, testNow, model.CategoryFood, "")
	l.AddExpense(existing)

	doc := csvcodec.EncodeExpenses([]model.Expense{existing})
	res, err := importCSV(l, []byte(doc), "expenses")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	got := l.Expenses()
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestThresholdFallsBackToDefault(t *testing.T) {
	saved := appConfig
	t.Cleanup(func() { appConfig = saved })

	appConfig.Alerts.NearingThreshold = 0
	assert.InDelta(t, 0.9, threshold(), 1e-9)

	appConfig.Alerts.NearingThreshold = 0.75
	assert.InDelta(t, 0.75, threshold(), 1e-9)
}

func TestRuntimeFileRoundTrip(t *testing.T) {
	rt := runtimeFile(filepath.Join(t.TempDir(), "moneymated.json"))
	want := daemonRuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:9999", StartedAt: testNow, DataFile: "/tmp/x.json"}
	require.NoError(t, rt.write(want))

	got, err := rt.read()
	require.NoError(t, err)
	assert.Equal(t, want.PID, got.PID)
	assert.Equal(t, want.Addr, got.Addr)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))

	assert.ErrorContains(t, rt.ensureNotRunning(), "already running")
}

func TestRuntimeFileClearsStaleRecord(t *testing.T) {
	rt := runtimeFile(filepath.Join(t.TempDir(), "moneymated.json"))
	require.NoError(t, os.WriteFile(string(rt), []byte(`{"pid":0}`), 0o600))

	_, err := rt.read()
	assert.ErrorContains(t, err, "invalid pid")

	require.NoError(t, rt.ensureNotRunning())
	_, err = os.Stat(string(rt))
	assert.True(t, os.IsNotExist(err))
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", "x"}, got)
}
