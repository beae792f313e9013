// Package store provides a SQLite-backed queue of pending local notifications.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// NoRepeat marks a one-shot notification.
const NoRepeat = -1

// Notification is a pending local notification keyed by Identifier.
type Notification struct {
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	FireAt     time.Time `json:"fire_at"`
	// RepeatHour is the local hour a daily notification repeats at, or NoRepeat.
	RepeatHour int       `json:"repeat_hour"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repeats reports whether n fires every day.
func (n Notification) Repeats() bool {
	return n.RepeatHour >= 0
}

// Queue provides SQLite-backed notification scheduling.
type Queue struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens or creates the queue database at the given path.
func Open(dbPath string) (*Queue, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating queue dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening queue db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Queue{db: db, loc: time.Local}, nil
}

// SetLocation sets the calendar used to compute daily repeats.
func (q *Queue) SetLocation(loc *time.Location) {
	if loc != nil {
		q.loc = loc
	}
}

// Close closes the queue database.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Schedule adds n, replacing any pending notification with the same identifier.
func (q *Queue) Schedule(n Notification) error {
	if n.Identifier == "" {
		return errors.New("notification identifier is empty")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := q.db.Exec(`INSERT OR REPLACE INTO notifications
		(identifier, title, body, fire_at, repeat_hour, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.Identifier, n.Title, n.Body, n.FireAt.UnixMilli(), n.RepeatHour,
		n.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", n.Identifier, err)
	}
	return nil
}

// Cancel removes pending notifications by identifier. Unknown ids are ignored.
func (q *Queue) Cancel(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := q.db.Exec("DELETE FROM notifications WHERE identifier IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("cancelling notifications: %w", err)
	}
	return nil
}

// Due returns notifications whose fire time is at or before now, earliest first.
func (q *Queue) Due(now time.Time) ([]Notification, error) {
	return q.query(`SELECT identifier, title, body, fire_at, repeat_hour, created_at
		FROM notifications WHERE fire_at <= ? ORDER BY fire_at, identifier`, now.UnixMilli())
}

// Pending returns every queued notification, earliest first.
func (q *Queue) Pending() ([]Notification, error) {
	return q.query(`SELECT identifier, title, body, fire_at, repeat_hour, created_at
		FROM notifications ORDER BY fire_at, identifier`)
}

// Get returns the pending notification with the given identifier.
func (q *Queue) Get(id string) (Notification, bool, error) {
	list, err := q.query(`SELECT identifier, title, body, fire_at, repeat_hour, created_at
		FROM notifications WHERE identifier = ?`, id)
	if err != nil || len(list) == 0 {
		return Notification{}, false, err
	}
	return list[0], true, nil
}

// MarkDelivered removes a one-shot notification, or moves a repeating one to
// its next daily occurrence after now.
func (q *Queue) MarkDelivered(n Notification, now time.Time) error {
	if !n.Repeats() {
		return q.Cancel(n.Identifier)
	}
	next := NextDaily(n.RepeatHour, now, q.loc)
	_, err := q.db.Exec("UPDATE notifications SET fire_at = ? WHERE identifier = ?", next.UnixMilli(), n.Identifier)
	if err != nil {
		return fmt.Errorf("rescheduling %s: %w", n.Identifier, err)
	}
	return nil
}

func (q *Queue) query(stmt string, args ...any) ([]Notification, error) {
	rows, err := q.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Notification
	for rows.Next() {
		var n Notification
		var fireAt int64
		var created string
		if err := rows.Scan(&n.Identifier, &n.Title, &n.Body, &fireAt, &n.RepeatHour, &created); err != nil {
			return nil, err
		}
		n.FireAt = time.UnixMilli(fireAt)
		n.CreatedAt, _ = time.Parse(time.RFC3339, created)
		result = append(result, n)
	}
	return result, rows.Err()
}

// NextDaily returns the first hour:00 in loc strictly after the given time.
func NextDaily(hour int, after time.Time, loc *time.Location) time.Time {
	local := after.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFile returns the last recorded state of path.
func (q *Queue) TrackedFile(path string) (FileInfo, bool, error) {
	var fi FileInfo
	err := q.db.QueryRow("SELECT mtime_ns, size_bytes FROM file_tracker WHERE file_path = ?", path).
		Scan(&fi.MtimeNs, &fi.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	return fi, true, nil
}

// TrackFile records the state of path.
func (q *Queue) TrackFile(path string, fi FileInfo) error {
	_, err := q.db.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, fi.MtimeNs, fi.SizeBytes)
	return err
}
