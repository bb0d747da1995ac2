package smallmap

import (
	"errors"
	"fmt"
)

// CompactThreshold is the largest capacity served by the flat linear-scan
// form. Larger capacities are backed by a hash map with an order index.
const CompactThreshold = 16

var (
	// ErrCapacityExceeded is returned when an append would grow the map past
	// its declared capacity.
	ErrCapacityExceeded = errors.New("smallmap: capacity exceeded")
	// ErrDuplicateKey is returned by Add when the key is already present.
	ErrDuplicateKey = errors.New("smallmap: duplicate key")
	// ErrUnsupported is returned by Remove and Clear; the map is append-only.
	ErrUnsupported = errors.New("smallmap: operation not supported")
)

// Map associates a bounded number of keys with values, preserving insertion
// order. Implementations are not safe for concurrent mutation; construct
// single-writer, then read freely.
type Map[K comparable, V comparable] interface {
	// Get returns the value for key and whether it was present.
	Get(key K) (V, bool)
	// Set replaces the value in place when key is present, otherwise appends.
	Set(key K, value V) error
	// Add appends a new entry. The key must not already be present.
	Add(key K, value V) error
	// ContainsKey reports whether key is present.
	ContainsKey(key K) bool
	// Contains reports whether the exact (key, value) pair is present.
	Contains(key K, value V) bool
	// Len returns the number of populated entries, not the capacity.
	Len() int
	// Range calls fn for each entry in insertion order until fn returns
	// false. Re-iterating an unmutated map yields the same sequence.
	Range(fn func(key K, value V) bool)
	// Remove is unsupported and always returns ErrUnsupported.
	Remove(key K) error
	// Clear is unsupported and always returns ErrUnsupported.
	Clear() error
}

// New returns a Map with the given capacity. Capacities up to
// CompactThreshold use the flat linear-scan form; larger capacities use a
// hash-backed form with identical semantics.
func New[K comparable, V comparable](capacity int) Map[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	if capacity <= CompactThreshold {
		return &compactMap[K, V]{entries: make([]entry[K, V], 0, capacity), cap: capacity}
	}
	return &hashedMap[K, V]{index: make(map[K]int, capacity), cap: capacity}
}

type entry[K comparable, V comparable] struct {
	key   K
	value V
}

// compactMap is the flat form: a slice scanned linearly on every lookup.
type compactMap[K comparable, V comparable] struct {
	entries []entry[K, V]
	cap     int
}

func (m *compactMap[K, V]) Get(key K) (V, bool) {
	for i := range m.entries {
		if m.entries[i].key == key {
			return m.entries[i].value, true
		}
	}
	var zero V
	return zero, false
}

func (m *compactMap[K, V]) Set(key K, value V) error {
	for i := range m.entries {
		if m.entries[i].key == key {
			m.entries[i].value = value
			return nil
		}
	}
	if len(m.entries) >= m.cap {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, m.cap)
	}
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
	return nil
}

func (m *compactMap[K, V]) Add(key K, value V) error {
	if len(m.entries) >= m.cap {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, m.cap)
	}
	for i := range m.entries {
		if m.entries[i].key == key {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
		}
	}
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
	return nil
}

func (m *compactMap[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *compactMap[K, V]) Contains(key K, value V) bool {
	v, ok := m.Get(key)
	return ok && v == value
}

func (m *compactMap[K, V]) Len() int { return len(m.entries) }

func (m *compactMap[K, V]) Range(fn func(key K, value V) bool) {
	for i := range m.entries {
		if !fn(m.entries[i].key, m.entries[i].value) {
			return
		}
	}
}

func (m *compactMap[K, V]) Remove(K) error { return ErrUnsupported }
func (m *compactMap[K, V]) Clear() error   { return ErrUnsupported }

// hashedMap backs large capacities: a hash index over an ordered entry slice.
type hashedMap[K comparable, V comparable] struct {
	entries []entry[K, V]
	index   map[K]int
	cap     int
}

func (m *hashedMap[K, V]) Get(key K) (V, bool) {
	if i, ok := m.index[key]; ok {
		return m.entries[i].value, true
	}
	var zero V
	return zero, false
}

func (m *hashedMap[K, V]) Set(key K, value V) error {
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value
		return nil
	}
	if len(m.entries) >= m.cap {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, m.cap)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
	return nil
}

func (m *hashedMap[K, V]) Add(key K, value V) error {
	if len(m.entries) >= m.cap {
		return fmt.Errorf("%w (capacity %d)", ErrCapacityExceeded, m.cap)
	}
	if _, ok := m.index[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
	return nil
}

func (m *hashedMap[K, V]) ContainsKey(key K) bool {
	_, ok := m.index[key]
	return ok
}

func (m *hashedMap[K, V]) Contains(key K, value V) bool {
	v, ok := m.Get(key)
	return ok && v == value
}

func (m *hashedMap[K, V]) Len() int { return len(m.entries) }

func (m *hashedMap[K, V]) Range(fn func(key K, value V) bool) {
	for i := range m.entries {
		if !fn(m.entries[i].key, m.entries[i].value) {
			return
		}
	}
}

func (m *hashedMap[K, V]) Remove(K) error { return ErrUnsupported }
func (m *hashedMap[K, V]) Clear() error   { return ErrUnsupported }
