package notify

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/logging"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/store"
)

var now = time.Date(2024, 7, 3, 18, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func setup(t *testing.T) (*ledger.Store, *store.Queue, *Coordinator) {
	t.Helper()
	l := ledger.New("", ledger.WithClock(clock), ledger.WithLocation(time.UTC))
	q, err := store.Open(filepath.Join(t.TempDir(), "notifications.db"))
	require.NoError(t, err)
	q.SetLocation(time.UTC)
	t.Cleanup(func() { _ = q.Close() })

	c := NewCoordinator(l, q, CoordinatorConfig{
		Debounce: 20 * time.Millisecond,
		Clock:    clock,
		Logger:   logging.Discard(),
	})
	return l, q, c
}

func identifiers(t *testing.T, q *store.Queue) []string {
	t.Helper()
	pending, err := q.Pending()
	require.NoError(t, err)
	ids := make([]string, len(pending))
	for i, n := range pending {
		ids[i] = n.Identifier
	}
	return ids
}

func TestRescheduleNearingAndExceeded(t *testing.T) {
	l, q, c := setup(t)
	l.UpsertBudget(model.NewBudgetLimit(model.CategoryFood, 50))
	l.UpsertBudget(model.NewBudgetLimit(model.CategoryHealth, 50))
	l.UpsertBudget(model.NewBudgetLimit(model.CategoryShopping, 10))
	l.AddExpense(model.NewExpense("groceries", 50, now, model.CategoryFood, ""))
	l.AddExpense(model.NewExpense("vitamins", 46, now, model.CategoryHealth, ""))
	l.AddExpense(model.NewExpense("shoes", 80, now, model.CategoryShopping, ""))

	require.NoError(t, c.Reschedule())

	nearing, ok, err := q.Get(IDBudgetNearing)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Budget Alert", nearing.Title)
	assert.Equal(t, "Nearing limits: Food, Health", nearing.Body)
	assert.True(t, nearing.FireAt.Equal(now.Add(2*time.Second)))

	exceeded, ok, err := q.Get(IDBudgetExceeded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Over Budget", exceeded.Title)
	assert.Equal(t, "Exceeded: Shopping", exceeded.Body)
	assert.True(t, exceeded.FireAt.Equal(now.Add(2500*time.Millisecond)))

	// Once spend drops, the stale notification disappears.
	l.DeleteExpenses([]int{0})
	require.NoError(t, c.Reschedule())
	assert.Equal(t, []string{IDBudgetNearing}, identifiers(t, q))
}

func TestRescheduleDailyLimit(t *testing.T) {
	l, q, c := setup(t)
	l.SetDailyMaxSpend(20)
	l.AddExpense(model.NewExpense("dinner", 25, now, model.CategoryFood, ""))

	require.NoError(t, c.Reschedule())
	n, ok, err := q.Get(IDDailyLimit)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "You've exceeded your daily limit. ($25 / $20)", n.Body)
}

func TestStartDebouncesChanges(t *testing.T) {
	l, q, c := setup(t)
	stop := c.Start()
	defer stop()

	l.UpsertBudget(model.NewBudgetLimit(model.CategoryFood, 10))
	for i := 0; i < 3; i++ {
		l.AddExpense(model.NewExpense("snack", 5, now, model.CategoryFood, ""))
	}

	assert.Eventually(t, func() bool {
		ids := identifiers(t, q)
		return len(ids) == 1 && ids[0] == IDBudgetExceeded
	}, time.Second, 10*time.Millisecond)
}

func TestDailyReminder(t *testing.T) {
	_, q, c := setup(t)
	require.NoError(t, c.ScheduleDailyReminder(9))

	n, ok, err := q.Get(IDDailyReminder)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MoneyMate Reminder", n.Title)
	assert.Equal(t, "Skip a treat today and move $5 to your savings goal.", n.Body)
	assert.True(t, n.FireAt.Equal(time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, 9, n.RepeatHour)

	// Budget reschedules leave the reminder alone.
	require.NoError(t, c.Reschedule())
	assert.Equal(t, []string{IDDailyReminder}, identifiers(t, q))

	require.NoError(t, c.CancelDailyReminder())
	assert.Empty(t, identifiers(t, q))
}

type recordingSink struct {
	mu  sync.Mutex
	got []string
	err error
}

func (r *recordingSink) Deliver(_ context.Context, n store.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n.Identifier)
	return r.err
}

func TestDispatchDue(t *testing.T) {
	_, q, c := setup(t)
	require.NoError(t, q.Schedule(store.Notification{Identifier: IDBudgetNearing, FireAt: now.Add(-time.Second), RepeatHour: store.NoRepeat}))
	require.NoError(t, q.Schedule(store.Notification{Identifier: IDBudgetExceeded, FireAt: now.Add(time.Minute), RepeatHour: store.NoRepeat}))
	require.NoError(t, c.ScheduleDailyReminder(9))

	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("sink down")}
	d := NewDispatcher(q, logging.Discard(), ok, failing, LogSink{Logger: logging.Discard()})

	reminderTime := time.Date(2024, 7, 4, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return reminderTime })

	n, err := d.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{IDBudgetNearing, IDBudgetExceeded, IDDailyReminder}, ok.got)
	assert.Len(t, failing.got, 3)

	// The reminder moves to the next day; the one-shots are gone.
	assert.Equal(t, []string{IDDailyReminder}, identifiers(t, q))
	reminder, _, err := q.Get(IDDailyReminder)
	require.NoError(t, err)
	assert.True(t, reminder.FireAt.Equal(reminderTime.AddDate(0, 0, 1)))

	n, err = d.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlanEmpty(t *testing.T) {
	assert.Empty(t, Plan(nil, now))
}
