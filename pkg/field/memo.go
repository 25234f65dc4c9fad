package field

import (
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Memo suppresses re-renders of a field whose value is unchanged since the
// previous pass. Only the value is compared: a new definition or new errors
// with the same value return the cached element. Entries are keyed by field
// key, so one Memo serves one form instance.
type Memo struct {
	renderer *Renderer

	mu      sync.Mutex
	entries map[string]memoEntry
	builds  uint64
}

type memoEntry struct {
	value   model.Value
	element widgets.Element
}

// NewMemo wraps renderer, or a default-registry renderer when nil.
func NewMemo(renderer *Renderer) *Memo {
	if renderer == nil {
		renderer = NewRenderer(nil)
	}
	return &Memo{
		renderer: renderer,
		entries:  make(map[string]memoEntry),
	}
}

// Render returns the cached element for def.Key when value equals the value
// it was built with, and builds a new one otherwise.
func (m *Memo) Render(def model.FieldDefinition, value model.Value, onChange ChangeFunc, errs []string) widgets.Element {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[def.Key]; ok && entry.value.Equal(value) {
		return entry.element
	}

	element := m.renderer.Render(def, value, onChange, errs)
	m.entries[def.Key] = memoEntry{value: value, element: element}
	m.builds++
	return element
}

// Retain drops cached entries whose key is not in keys.
func (m *Memo) Retain(keys []string) {
	keep := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		keep[key] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if _, ok := keep[key]; !ok {
			delete(m.entries, key)
		}
	}
}

// Reset clears the cache.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoEntry)
}

// Builds reports how many elements have been built since construction.
func (m *Memo) Builds() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds
}
