package network

import "sync"

// Memo is a once-cell for a lazily resolved value. The first successful
// resolution wins and is returned to every later caller; a failed
// resolution is not memoized, so the next caller retries.
type Memo[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

// GetOrInit returns the memoized value, resolving it with init if no caller
// has succeeded yet. Callers racing on an unresolved cell serialize; only
// one init runs at a time.
func (m *Memo[T]) GetOrInit(init func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.value, nil
	}

	value, err := init()
	if err != nil {
		return value, err
	}

	m.value = value
	m.done = true
	return m.value, nil
}
