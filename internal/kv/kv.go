// Package kv provides a small durable key-value store used for client-side
// session state. The interface boundary lets tests substitute an in-memory
// implementation for the file-backed one.
package kv

// Store persists string keys and values.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores or replaces the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
