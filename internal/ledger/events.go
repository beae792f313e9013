package ledger

// ChangeKind names the part of the ledger a mutation touched.
type ChangeKind string

const (
	ChangeExpenses ChangeKind = "expenses"
	ChangeGoals    ChangeKind = "goals"
	ChangeBudgets  ChangeKind = "budgets"
	ChangeSettings ChangeKind = "settings"
	ChangeLoaded   ChangeKind = "loaded"
	ChangeCleared  ChangeKind = "cleared"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind ChangeKind
	// Persisted is set when the mutation already wrote (or removed) the snapshot.
	Persisted bool
}

// Subscribe registers fn for change events and returns a func that removes it.
// Listeners run synchronously on the mutating goroutine, after the state lock
// has been released, so they may read the Store.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) emit(c Change) {
	s.subMu.Lock()
	listeners := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}
