package ledger

import (
	"time"

	"github.com/theirongolddev/moneymate/internal/debounce"
)

// DefaultAutosaveDelay is the quiet period before a burst of mutations is saved.
const DefaultAutosaveDelay = 800 * time.Millisecond

// StartAutosave saves the snapshot once mutations have been quiet for delay.
// Changes that already persisted (load, clear) cancel a pending save. The
// returned func unsubscribes and flushes any pending save.
func (s *Store) StartAutosave(delay time.Duration) func() {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	d := debounce.New(delay, s.Save)
	unsubscribe := s.Subscribe(func(c Change) {
		if c.Persisted {
			// The snapshot on disk already matches memory.
			d.Cancel()
			return
		}
		d.Trigger()
	})
	return func() {
		unsubscribe()
		d.Flush()
		d.Stop()
	}
}
