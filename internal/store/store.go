// Package store holds the in-memory index that the ingestion handler keeps in
// sync with the watched directory.
//
// Memory is safe for concurrent use: mutations take the write lock, queries
// take the read lock and Snapshot hands out a copy of the top-level map, so
// a report never observes a half-applied update. Values are replaced
// wholesale and must not be mutated after Set.
package store

import (
	"sort"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/ginjaninja78/csv-sales-watcher/internal/types"
)

// Memory is a read/write locked map.
type Memory[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// NewMemory returns an empty store.
func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{data: make(map[K]V)}
}

func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key and reports whether an entry was replaced.
func (m *Memory[K, V]) Set(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.data[key]
	m.data[key] = value
	return existed
}

// SetIfAbsent stores value only when key is not present and reports whether
// it did.
func (m *Memory[K, V]) SetIfAbsent(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false
	}
	m.data[key] = value
	return true
}

// Delete removes key and reports whether it was present.
func (m *Memory[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok
}

func (m *Memory[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Snapshot returns a copy of the current contents.
func (m *Memory[K, V]) Snapshot() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[K]V, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Keys returns the current keys in no particular order.
func (m *Memory[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Reset drops every entry.
func (m *Memory[K, V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[K]V)
}

// SalesStore maps each calendar date to the sales recorded for it.
type SalesStore = Memory[civil.Date, types.SalesDay]

// NewSalesStore returns an empty sales store.
func NewSalesStore() *SalesStore {
	return NewMemory[civil.Date, types.SalesDay]()
}

// SortedDates returns the dates of a snapshot in ascending order.
func SortedDates(snapshot map[civil.Date]types.SalesDay) []civil.Date {
	dates := make([]civil.Date, 0, len(snapshot))
	for d := range snapshot {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
