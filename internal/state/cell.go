// Package state provides a minimal observable value container. A Cell holds a
// single value; readers get an immutable snapshot and subscribers are notified
// on every write. Derived values are computed as pure functions of snapshots
// rather than cached.
package state

import "sync"

// Cell is a thread-safe observable value.
type Cell[T any] struct {
	mu    sync.Mutex
	value T

	nextID      int
	subscribers map[int]func(T)
}

// NewCell creates a cell holding the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores a new value and notifies all subscribers.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	subs := make([]func(T), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	// Notify outside the lock so subscribers can read or write the cell.
	for _, fn := range subs {
		fn(value)
	}
}

// Subscribe registers fn to be called on every Set. The returned function
// removes the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribers == nil {
		c.subscribers = make(map[int]func(T))
	}
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}
