package store

import (
	"sync"

	"membox/pkg/kv"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// It owns private copies of every key and value it holds: Set copies the
// caller's bytes in, Get hands out a view of the store's own buffer, and
// Delete (or an overwriting Set) drops the store's reference so nothing
// keeps the old buffer alive. A map protected by a RWMutex serializes all
// operations.
//
// Allocation accounting mirrors the copy/release discipline: every buffer
// the store copies in bumps an alloc counter, every buffer it lets go bumps
// a free counter. Overwriting a key never re-allocates the key: the map
// retains the original key string, so KeyAllocs stays at one per distinct
// key for its whole lifetime.
type MemStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	maxBytes int64
	stats    Stats
}

// Stats is a snapshot of the store's allocation accounting.
type Stats struct {
	Entries     int   `json:"entries"`
	UsedBytes   int64 `json:"used_bytes"`
	MaxBytes    int64 `json:"max_bytes"`
	KeyAllocs   int64 `json:"key_allocs"`
	KeyFrees    int64 `json:"key_frees"`
	ValueAllocs int64 `json:"value_allocs"`
	ValueFrees  int64 `json:"value_frees"`
}

// Live reports the number of buffers the store currently owns.
func (s Stats) Live() int64 {
	return (s.KeyAllocs - s.KeyFrees) + (s.ValueAllocs - s.ValueFrees)
}

// Option configures a MemStore.
type Option func(*MemStore)

// WithMaxBytes caps the total bytes of keys and values the store may own.
// A Set that would push usage past the cap fails with kv.ErrNoSpace.
// Zero (the default) means unbounded.
func WithMaxBytes(n int64) Option {
	return func(s *MemStore) {
		s.maxBytes = n
	}
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new, empty MemStore instance.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		data: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a value by key from the store.
// Returns a view of the stored value and true if found, nil and false
// otherwise. The view aliases the store's internal buffer and must not be
// retained past the next Set or Delete of the same key.
func (s *MemStore) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[string(key)]
	return val, ok
}

// Set stores a key-value pair in the store, copying both inputs.
//
// On a fresh insert the store allocates one copy of the key and one of the
// value. On overwrite only the value is copied: the previously stored value
// is released and the map's existing key is reused, so the caller's key
// bytes never replace it. If the byte budget would be exceeded, nothing is
// copied and the store is left exactly as it was.
func (s *MemStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.data[string(key)]

	var delta int64
	if exists {
		delta = int64(len(value)) - int64(len(old))
	} else {
		delta = int64(len(key)) + int64(len(value))
	}
	if s.maxBytes > 0 && s.stats.UsedBytes+delta > s.maxBytes {
		return kv.ErrNoSpace
	}

	owned := make([]byte, len(value))
	copy(owned, value)
	s.stats.ValueAllocs++

	if exists {
		// Assigning through the existing key leaves the map's interned
		// key untouched; only the old value is released.
		s.stats.ValueFrees++
	} else {
		s.stats.KeyAllocs++
	}
	s.data[string(key)] = owned
	s.stats.UsedBytes += delta
	return nil
}

// Delete removes a key from the store, releasing the owned key and value.
// Returns true if an entry was removed, false if the key was absent.
func (s *MemStore) Delete(key []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.data[string(key)]
	if !ok {
		return false
	}

	delete(s.data, string(key))
	s.stats.KeyFrees++
	s.stats.ValueFrees++
	s.stats.UsedBytes -= int64(len(key)) + int64(len(val))
	return true
}

// Len returns the number of entries currently stored.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Stats returns a snapshot of the store's allocation accounting.
func (s *MemStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.stats
	st.Entries = len(s.data)
	st.MaxBytes = s.maxBytes
	return st
}

// Purge releases every entry, returning the store to its freshly created
// state. Intended for shutdown and for test isolation.
func (s *MemStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range s.data {
		s.stats.KeyFrees++
		s.stats.ValueFrees++
	}
	s.data = make(map[string][]byte)
	s.stats.UsedBytes = 0
}
