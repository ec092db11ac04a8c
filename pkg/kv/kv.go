package kv

import "errors"

// ErrNoSpace is returned by Set when storing the pair would exceed the
// store's configured byte budget. The store is left unchanged.
var ErrNoSpace = errors.New("kv: byte budget exhausted")

// Store defines the interface for a key-value cache.
// Implementations of this interface can be swapped out,
// allowing for different backends (e.g., plain in-memory, instrumented).
type Store interface {
	// Get retrieves the value associated with the given key.
	// Returns a read-only view into the store's own copy of the value and
	// true if the key exists, or nil and false if not. The view is only
	// valid until the next Set or Delete of the same key.
	Get(key []byte) ([]byte, bool)

	// Set stores owned copies of the key and value, overwriting any
	// previous value for the key. Returns ErrNoSpace if the store's byte
	// budget cannot accommodate the pair; the store is unchanged on error.
	Set(key, value []byte) error

	// Delete removes a key from the store.
	// Returns true if an entry was removed, false if the key was absent.
	Delete(key []byte) bool
}
