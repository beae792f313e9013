package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theirongolddev/moneymate/internal/model"
)

// ErrNoSnapshotPath is returned when persisting a Store created without a path.
var ErrNoSnapshotPath = errors.New("ledger has no snapshot path")

// Load replaces the in-memory state with the snapshot on disk. A missing file
// yields the empty state. A corrupt file also yields the empty state and is
// logged; Load never fails.
func (s *Store) Load() {
	b, err := s.readSnapshot()
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrNoSnapshotPath):
		b = emptyBundle()
	default:
		s.logger.Warn("snapshot unreadable, starting empty", "path", s.path, "error", err)
		b = emptyBundle()
	}
	s.replace(b)
	s.emit(Change{Kind: ChangeLoaded, Persisted: true})
}

func (s *Store) readSnapshot() (model.ExportBundle, error) {
	if s.path == "" {
		return model.ExportBundle{}, ErrNoSnapshotPath
	}
	s.ioMu.Lock()
	data, err := os.ReadFile(s.path)
	s.ioMu.Unlock()
	if err != nil {
		return model.ExportBundle{}, err
	}
	return DecodeBundle(data)
}

// DecodeBundle parses a snapshot document.
func DecodeBundle(data []byte) (model.ExportBundle, error) {
	var b model.ExportBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return model.ExportBundle{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return normalize(b), nil
}

// WriteBundle encodes the current state as an indented snapshot document.
func (s *Store) WriteBundle(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Bundle())
}

// Save writes the snapshot. Failures are logged and discarded; the in-memory
// state stays authoritative.
func (s *Store) Save() {
	if err := s.Persist(); err != nil && !errors.Is(err, ErrNoSnapshotPath) {
		s.logger.Warn("saving snapshot", "path", s.path, "error", err)
	}
}

// Persist writes the snapshot atomically and reports any error. Readers never
// observe a partially written file.
func (s *Store) Persist() error {
	if s.path == "" {
		return ErrNoSnapshotPath
	}

	// Snapshot under ioMu so writes land in the order their state was taken.
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	data, err := json.Marshal(s.Bundle())
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return writeAtomic(s.path, data)
}

// ClearAll resets every collection and the settings. With deleteFile the
// snapshot is removed; otherwise the empty state is written immediately.
func (s *Store) ClearAll(deleteFile bool) {
	s.replace(emptyBundle())

	if deleteFile {
		if s.path != "" {
			s.ioMu.Lock()
			err := os.Remove(s.path)
			s.ioMu.Unlock()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("removing snapshot", "path", s.path, "error", err)
			}
		}
	} else {
		s.Save()
	}
	s.emit(Change{Kind: ChangeCleared, Persisted: true})
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}

func emptyBundle() model.ExportBundle {
	return normalize(model.ExportBundle{})
}

// normalize swaps nil collections for empty ones.
func normalize(b model.ExportBundle) model.ExportBundle {
	if b.Expenses == nil {
		b.Expenses = []model.Expense{}
	}
	if b.Goals == nil {
		b.Goals = []model.SavingsGoal{}
	}
	if b.Budgets == nil {
		b.Budgets = []model.BudgetCategoryLimit{}
	}
	if b.Badges == nil {
		b.Badges = []model.Badge{}
	}
	if b.Challenges == nil {
		b.Challenges = []model.Challenge{}
	}
	return b
}
