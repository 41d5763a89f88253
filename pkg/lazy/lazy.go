// Package lazy provides a mutex-guarded handle for process-wide clients that
// are built on first use and shared afterward.
package lazy

import "sync"

// Value builds its content at most once per successful initialization.
// A failed initialization is not cached, so a later call retries it
// (for example after a missing credential is supplied).
type Value[T any] struct {
	mu    sync.Mutex
	init  func() (T, error)
	value T
	ready bool
}

// New returns a Value that calls init on the first Get.
func New[T any](init func() (T, error)) *Value[T] {
	return &Value[T]{init: init}
}

// Get returns the shared value, building it if no previous call succeeded.
// Concurrent first calls are serialized so init never runs twice in parallel.
func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ready {
		return v.value, nil
	}

	value, err := v.init()
	if err != nil {
		var zero T
		return zero, err
	}

	v.value = value
	v.ready = true
	return v.value, nil
}

