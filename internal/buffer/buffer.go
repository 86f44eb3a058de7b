// Package buffer provides a fixed-capacity, newest-first ring shared between
// a single producer and the render loop. The zero value is not usable; use New.
package buffer

import "sync"

// Ring is a bounded, insertion-ordered container. The newest item is at the
// front; pushing beyond capacity evicts the oldest item. All methods are safe
// for concurrent use, and each call observes a fully consistent state. The
// internal lock is held only for the duration of a single push or copy.
type Ring[T any] struct {
	mu    sync.Mutex
	items []T
	cap   int
}

// New creates a Ring with the given capacity. Capacity must be positive.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("buffer: capacity must be positive")
	}
	return &Ring[T]{cap: capacity}
}

// Push inserts item at the front. If the ring is full the oldest (back)
// item is evicted.
func (r *Ring[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) < r.cap {
		r.items = append(r.items, item)
		copy(r.items[1:], r.items)
	} else {
		copy(r.items[1:], r.items[:len(r.items)-1])
	}
	r.items[0] = item
}

// Len returns the current number of buffered items.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return r.cap
}

// Snapshot returns a copy of all items, newest first.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// SnapshotFilter returns a copy of the items satisfying pred, preserving
// newest-first order. The ring is not mutated.
func (r *Ring[T]) SnapshotFilter(pred func(T) bool) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, it := range r.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// First returns the newest item satisfying pred, if any.
func (r *Ring[T]) First(pred func(T) bool) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
