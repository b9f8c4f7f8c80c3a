package mirror

import (
	"sync"

	"labflow/internal/sheet"
)

// Mirror is an in-memory copy of the last-fetched remote collection, in the
// order the endpoint returned it. Several mirrors of the same collection can
// exist at once (full list, search results, the row a detail dialog shows)
// and the coordinator keeps them consistent during an optimistic update.
type Mirror struct {
	mu      sync.RWMutex
	records []sheet.Record
	index   map[string]int
}

func New() *Mirror {
	return &Mirror{index: make(map[string]int)}
}

// Replace swaps in a freshly fetched collection.
func (m *Mirror) Replace(records []sheet.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	m.index = make(map[string]int, len(records))
	for i, r := range records {
		if id := r.ID(); id != "" {
			m.index[id] = i
		}
	}
}

// Records returns a copy of the collection's rows (shallow per row).
func (m *Mirror) Records() []sheet.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]sheet.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len reports how many rows the mirror holds.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Get returns a copy of the row for key, if present.
func (m *Mirror) Get(key string) (sheet.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.records[i].Clone(), true
}

// Value reads one canonical field for key.
func (m *Mirror) Value(key, field string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.records[i].Get(field), true
}

// SetValue writes one canonical field for key. A mirror that does not hold
// the key ignores the write: a search-result mirror may legitimately not
// contain the row being edited.
func (m *Mirror) SetValue(key, field string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.records[i].Set(field, value)
}
