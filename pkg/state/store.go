// Package state holds the authoritative values snapshot shared by the form
// orchestrator and its host. Every read-merge-commit runs under one lock and
// bumps a version, so a change handler always merges against the latest
// committed values instead of a copy captured at render time.
package state

import (
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Updater derives the next values from the previous snapshot. It receives a
// private copy and may modify it.
type Updater func(prev model.Values) model.Values

// Listener is notified after every commit.
type Listener func(values model.Values, version uint64)

// Store is a version-stamped values cell. The zero value is ready to use.
type Store struct {
	mu        sync.Mutex
	values    model.Values
	version   uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore seeds the store with a copy of initial.
func NewStore(initial model.Values) *Store {
	return &Store{values: initial.Clone()}
}

// Snapshot returns a copy of the current values and their version.
func (s *Store) Snapshot() (model.Values, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone(), s.version
}

// Values returns a copy of the current values.
func (s *Store) Values() model.Values {
	values, _ := s.Snapshot()
	return values
}

// Version reports how many commits the store has seen.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Commit replaces the values wholesale.
func (s *Store) Commit(values model.Values) uint64 {
	return s.Update(func(model.Values) model.Values {
		return values.Clone()
	})
}

// Update applies fn to the latest snapshot and commits the result. Concurrent
// updates are serialised, so none observes a stale snapshot.
func (s *Store) Update(fn Updater) uint64 {
	if fn == nil {
		return s.Version()
	}

	s.mu.Lock()
	next := fn(s.values.Clone())
	if next == nil {
		next = model.Values{}
	}
	s.values = next
	s.version++
	version := s.version
	committed := next.Clone()
	listeners := s.listenerList()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(committed, version)
	}
	return version
}

// Set merges one key into the latest snapshot and returns the merged copy.
func (s *Store) Set(key string, value model.Value) (model.Values, uint64) {
	var merged model.Values
	version := s.Update(func(prev model.Values) model.Values {
		prev[key] = value
		merged = prev.Clone()
		return prev
	})
	return merged, version
}

// Subscribe registers a listener and returns a function removing it.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[uint64]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) listenerList() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(s.listeners))
	for id := uint64(0); id < s.nextID; id++ {
		if listener, ok := s.listeners[id]; ok {
			out = append(out, listener)
		}
	}
	return out
}
