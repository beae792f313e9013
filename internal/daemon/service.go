// Package daemon provides the long-running notification service: it watches the
// ledger snapshot, keeps budget notifications scheduled, delivers them when due
// and exposes status over a loopback HTTP/SSE API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/moneymate/internal/alert"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/notify"
	"github.com/theirongolddev/moneymate/internal/store"
)

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventLedgerDelta  = "ledger_delta"
	EventNotification = "notification"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Interval      time.Duration
	Addr          string
	EventsBuffer  int
	Threshold     float64
	AlertsEnabled bool
	// ReminderHour schedules the daily reminder at that local hour; -1 disables it.
	ReminderHour int
	Clock        func() time.Time
	Logger       *slog.Logger
}

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At            time.Time `json:"at"`
	Expenses      int       `json:"expenses"`
	Goals         int       `json:"goals"`
	Budgets       int       `json:"budgets"`
	MonthSpend    float64   `json:"month_spend"`
	TodaySpend    float64   `json:"today_spend"`
	DailyMaxSpend float64   `json:"daily_max_spend"`
	SavedTotal    float64   `json:"saved_total"`
	TargetTotal   float64   `json:"target_total"`
	Alerts        int       `json:"alerts"`
	Banner        string    `json:"banner,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Expenses   int     `json:"expenses"`
	Goals      int     `json:"goals"`
	Budgets    int     `json:"budgets"`
	MonthSpend float64 `json:"month_spend"`
	TodaySpend float64 `json:"today_spend"`
	SavedTotal float64 `json:"saved_total"`
	Alerts     int     `json:"alerts"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.Goals == 0 &&
		d.Budgets == 0 &&
		d.MonthSpend == 0 &&
		d.TodaySpend == 0 &&
		d.SavedTotal == 0 &&
		d.Alerts == 0
}

// Event is emitted whenever the ledger snapshot changes or a notification fires.
type Event struct {
	ID           int64               `json:"id"`
	Type         string              `json:"type"`
	Timestamp    time.Time           `json:"timestamp"`
	Snapshot     Snapshot            `json:"snapshot"`
	Delta        Delta               `json:"delta"`
	Notification *store.Notification `json:"notification,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	LastReloadAt    time.Time `json:"last_reload_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataFile        string    `json:"data_file"`
	Summary         Snapshot  `json:"summary"`
	Pending         int       `json:"pending_notifications"`
	Delivered       int64     `json:"delivered_notifications"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// AlertsResponse is served at /v1/alerts.
type AlertsResponse struct {
	At     time.Time     `json:"at"`
	Banner string        `json:"banner,omitempty"`
	Alerts []alert.Alert `json:"alerts"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg         Config
	ledger      *ledger.Store
	queue       *store.Queue
	coordinator *notify.Coordinator
	dispatcher  *notify.Dispatcher

	mu           sync.RWMutex
	startedAt    time.Time
	lastPollAt   time.Time
	lastReloadAt time.Time
	pollCount    int64
	delivered    int64
	lastError    string
	hasSnapshot  bool
	snapshot     Snapshot
	alerts       []alert.Alert
	fileInfo     store.FileInfo
	tracked      bool
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service over the given ledger and queue. Extra sinks
// receive every delivered notification alongside the log and the event stream.
func New(cfg Config, l *ledger.Store, q *store.Queue, sinks ...notify.Sink) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = alert.DefaultThreshold
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		ledger:    l,
		queue:     q,
		startedAt: cfg.Clock(),
		subs:      make(map[int]chan Event),
	}
	s.coordinator = notify.NewCoordinator(l, q, notify.CoordinatorConfig{
		Threshold: cfg.Threshold,
		Clock:     cfg.Clock,
		Logger:    cfg.Logger,
	})
	all := append([]notify.Sink{notify.LogSink{Logger: cfg.Logger}, s}, sinks...)
	s.dispatcher = notify.NewDispatcher(q, cfg.Logger, all...)
	s.dispatcher.SetClock(cfg.Clock)
	return s
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := s.scheduleReminder(); err != nil {
		s.cfg.Logger.Warn("scheduling daily reminder", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		// Seed initial snapshot so status is useful immediately.
		s.pollOnce(gctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})
	return g.Wait()
}

func (s *Service) scheduleReminder() error {
	if s.cfg.ReminderHour < 0 || !s.cfg.AlertsEnabled {
		return s.coordinator.CancelDailyReminder()
	}
	if _, ok, err := s.queue.Get(notify.IDDailyReminder); err != nil || ok {
		return err
	}
	return s.coordinator.ScheduleDailyReminder(s.cfg.ReminderHour)
}

// pollOnce reloads the snapshot when it changed on disk, reschedules budget
// notifications for the new state, refreshes the summary and dispatches
// whatever is due.
func (s *Service) pollOnce(ctx context.Context) {
	now := s.cfg.Clock()

	changed, err := s.reloadIfChanged()
	if err != nil {
		s.recordError(now, err)
		return
	}
	if changed && s.cfg.AlertsEnabled {
		if err := s.coordinator.Reschedule(); err != nil {
			s.recordError(now, fmt.Errorf("scheduling notifications: %w", err))
			return
		}
	}

	alerts := alert.Evaluate(s.ledger, now, s.cfg.Threshold)
	snap := snapshotFromSummary(s.ledger.Summary(now), alerts, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.alerts = alerts
	s.lastPollAt = now
	if changed {
		s.lastReloadAt = now
	}
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      EventLedgerDelta,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}

	if _, err := s.dispatcher.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.recordError(now, fmt.Errorf("dispatching notifications: %w", err))
	}
}

// reloadIfChanged compares the snapshot file's mtime and size with the last
// recorded values, which survive restarts in the queue database.
func (s *Service) reloadIfChanged() (bool, error) {
	path := s.ledger.Path()

	var current store.FileInfo
	info, err := os.Stat(path)
	switch {
	case err == nil:
		current = store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("stat snapshot: %w", err)
	}

	s.mu.RLock()
	prev, tracked := s.fileInfo, s.tracked
	s.mu.RUnlock()

	first := !tracked
	if first {
		stored, ok, err := s.queue.TrackedFile(path)
		if err != nil {
			return false, fmt.Errorf("reading file tracker: %w", err)
		}
		prev, tracked = stored, ok
	}

	changed := !tracked || prev != current
	if changed || first {
		s.ledger.Load()
	}
	if changed {
		if err := s.queue.TrackFile(path, current); err != nil {
			return false, fmt.Errorf("updating file tracker: %w", err)
		}
	}

	s.mu.Lock()
	s.fileInfo = current
	s.tracked = true
	s.mu.Unlock()
	return changed, nil
}

func (s *Service) recordError(now time.Time, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = now
	s.pollCount++
	s.mu.Unlock()
	s.cfg.Logger.Warn("daemon poll error", "error", err)
}

// Deliver publishes a delivered notification on the event stream.
func (s *Service) Deliver(_ context.Context, n store.Notification) error {
	s.mu.Lock()
	s.nextEventID++
	s.delivered++
	ev := Event{
		ID:           s.nextEventID,
		Type:         EventNotification,
		Timestamp:    s.cfg.Clock(),
		Snapshot:     s.snapshot,
		Notification: &n,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
	return nil
}

func snapshotFromSummary(sum model.LedgerSummary, alerts []alert.Alert, at time.Time) Snapshot {
	return Snapshot{
		At:            at,
		Expenses:      sum.Expenses,
		Goals:         sum.Goals,
		Budgets:       sum.Budgets,
		MonthSpend:    sum.MonthSpend,
		TodaySpend:    sum.TodaySpend,
		DailyMaxSpend: sum.DailyMaxSpend,
		SavedTotal:    sum.SavedTotal,
		TargetTotal:   sum.TargetTotal,
		Alerts:        len(alerts),
		Banner:        alert.Banner(alerts),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses:   curr.Expenses - prev.Expenses,
		Goals:      curr.Goals - prev.Goals,
		Budgets:    curr.Budgets - prev.Budgets,
		MonthSpend: curr.MonthSpend - prev.MonthSpend,
		TodaySpend: curr.TodaySpend - prev.TodaySpend,
		SavedTotal: curr.SavedTotal - prev.SavedTotal,
		Alerts:     curr.Alerts - prev.Alerts,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	pending := 0
	if list, err := s.queue.Pending(); err == nil {
		pending = len(list)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		LastReloadAt:    s.lastReloadAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataFile:        s.ledger.Path(),
		Summary:         s.snapshot,
		Pending:         pending,
		Delivered:       s.delivered,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := AlertsResponse{
		At:     s.lastPollAt,
		Banner: alert.Banner(s.alerts),
		Alerts: append([]alert.Alert{}, s.alerts...),
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	s.mu.RLock()
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Clock(),
		Snapshot:  s.snapshot,
	}
	s.mu.RUnlock()
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
