package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/theirongolddev/moneymate/internal/store"
)

// Sink receives delivered notifications.
type Sink interface {
	Deliver(ctx context.Context, n store.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n store.Notification) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, n store.Notification) error {
	return f(ctx, n)
}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

// Deliver logs n at info level.
func (s LogSink) Deliver(ctx context.Context, n store.Notification) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification", "id", n.Identifier, "title", n.Title, "body", n.Body)
	return nil
}

// DueQueue is the read side of the notification queue.
type DueQueue interface {
	Due(now time.Time) ([]store.Notification, error)
	MarkDelivered(n store.Notification, now time.Time) error
}

// Dispatcher delivers due notifications to every sink.
type Dispatcher struct {
	queue  DueQueue
	sinks  []Sink
	clock  func() time.Time
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(q DueQueue, logger *slog.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{queue: q, sinks: sinks, clock: time.Now, logger: logger}
}

// SetClock overrides time.Now.
func (d *Dispatcher) SetClock(clock func() time.Time) {
	d.clock = clock
}

// DispatchDue delivers everything due now and returns how many were delivered.
// Delivery is fire-and-forget: a failing sink is logged and the notification
// is still marked delivered.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	now := d.clock()
	due, err := d.queue.Due(now)
	if err != nil {
		return 0, err
	}

	var errs []error
	delivered := 0
	for _, n := range due {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		for _, sink := range d.sinks {
			if err := sink.Deliver(ctx, n); err != nil {
				d.logger.Warn("delivering notification", "id", n.Identifier, "error", err)
			}
		}
		if err := d.queue.MarkDelivered(n, now); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Run dispatches on every tick until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("dispatching notifications", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
