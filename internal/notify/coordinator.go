// Package notify turns ledger alerts into queued local notifications and
// delivers them when due.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/debounce"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/store"
	"github.com/theirongolddev/moneymate/internal/tips"
)

// Notification identifiers. Scheduling under an existing identifier replaces it.
const (
	IDBudgetNearing  = "budget-nearing"
	IDBudgetExceeded = "budget-exceeded"
	IDDailyLimit     = "daily-limit"
	IDDailyReminder  = "daily-reminder"
)

// BudgetIDs are cleared and recomputed on every reschedule.
var BudgetIDs = []string{IDBudgetNearing, IDBudgetExceeded, IDDailyLimit}

const (
	nearingDelay  = 2 * time.Second
	exceededDelay = 2500 * time.Millisecond
	dailyDelay    = 2 * time.Second

	// DefaultDebounce is the quiet period before budget notifications are recomputed.
	DefaultDebounce = time.Second
	// DefaultReminderHour is the local hour of the daily savings reminder.
	DefaultReminderHour = 9
)

// Ledger is the state the coordinator observes.
type Ledger interface {
	alert.Source
	Subscribe(fn func(ledger.Change)) func()
}

// Scheduler is the write side of the notification queue.
type Scheduler interface {
	Schedule(n store.Notification) error
	Cancel(ids ...string) error
}

// CoordinatorConfig holds tunables. Zero values take defaults.
type CoordinatorConfig struct {
	Threshold float64
	Debounce  time.Duration
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Coordinator keeps the budget notifications in the queue in step with the ledger.
type Coordinator struct {
	ledger    Ledger
	queue     Scheduler
	threshold float64
	delay     time.Duration
	clock     func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	debouncer *debounce.Debouncer
}

// NewCoordinator creates a Coordinator. Call Start to begin observing.
func NewCoordinator(l Ledger, q Scheduler, cfg CoordinatorConfig) *Coordinator {
	if cfg.Threshold <= 0 {
		cfg.Threshold = alert.DefaultThreshold
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Coordinator{
		ledger:    l,
		queue:     q,
		threshold: cfg.Threshold,
		delay:     cfg.Debounce,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
	}
}

// Start reschedules budget notifications after every burst of ledger changes.
// The returned func stops observing and drops any pending reschedule.
func (c *Coordinator) Start() func() {
	c.mu.Lock()
	c.debouncer = debounce.New(c.delay, func() {
		if err := c.Reschedule(); err != nil {
			c.logger.Warn("scheduling budget notifications", "error", err)
		}
	})
	d := c.debouncer
	c.mu.Unlock()

	unsubscribe := c.ledger.Subscribe(func(ledger.Change) { d.Trigger() })
	return func() {
		unsubscribe()
		d.Stop()
	}
}

// Reschedule clears the budget notifications and queues one per active alert
// kind: nearing categories, exceeded categories, and the daily cap.
func (c *Coordinator) Reschedule() error {
	if err := c.queue.Cancel(BudgetIDs...); err != nil {
		return err
	}

	now := c.clock()
	for _, n := range Plan(alert.Evaluate(c.ledger, now, c.threshold), now) {
		if err := c.queue.Schedule(n); err != nil {
			return err
		}
		c.logger.Debug("notification scheduled", "id", n.Identifier, "fire_at", n.FireAt)
	}
	return nil
}

// Plan maps alerts to the budget notifications they produce.
func Plan(alerts []alert.Alert, now time.Time) []store.Notification {
	var out []store.Notification
	if nearing := alert.Filter(alerts, alert.ScopeCategory, alert.KindNearing); len(nearing) > 0 {
		out = append(out, store.Notification{
			Identifier: IDBudgetNearing,
			Title:      "Budget Alert",
			Body:       "Nearing limits: " + alert.CategoryNames(nearing),
			FireAt:     now.Add(nearingDelay),
			RepeatHour: store.NoRepeat,
			CreatedAt:  now,
		})
	}
	if exceeded := alert.Filter(alerts, alert.ScopeCategory, alert.KindExceeded); len(exceeded) > 0 {
		out = append(out, store.Notification{
			Identifier: IDBudgetExceeded,
			Title:      "Over Budget",
			Body:       "Exceeded: " + alert.CategoryNames(exceeded),
			FireAt:     now.Add(exceededDelay),
			RepeatHour: store.NoRepeat,
			CreatedAt:  now,
		})
	}
	for _, a := range alerts {
		if a.Scope != alert.ScopeDaily {
			continue
		}
		out = append(out, store.Notification{
			Identifier: IDDailyLimit,
			Title:      "Daily Limit",
			Body:       alert.Message(a),
			FireAt:     now.Add(dailyDelay),
			RepeatHour: store.NoRepeat,
			CreatedAt:  now,
		})
	}
	return out
}

// ScheduleDailyReminder queues the repeating savings reminder at hour:00 local time.
func (c *Coordinator) ScheduleDailyReminder(hour int) error {
	if hour < 0 || hour > 23 {
		hour = DefaultReminderHour
	}
	now := c.clock()
	return c.queue.Schedule(store.Notification{
		Identifier: IDDailyReminder,
		Title:      "MoneyMate Reminder",
		Body:       tips.Reminder(),
		FireAt:     store.NextDaily(hour, now, c.ledger.Location()),
		RepeatHour: hour,
		CreatedAt:  now,
	})
}

// CancelDailyReminder removes the savings reminder.
func (c *Coordinator) CancelDailyReminder() error {
	return c.queue.Cancel(IDDailyReminder)
}
