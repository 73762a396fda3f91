package feed

import (
	"slices"
	"sync"
	"sync/atomic"
)

// RefreshSignal is the session-wide invalidation counter. Every successful
// mutation bumps it; feed views compare it with the value they last loaded at
// and refetch from page 1 when it moved. It starts at 0 and only ever grows.
type RefreshSignal struct {
	key atomic.Int64

	mu        sync.Mutex
	listeners []func(int64)
}

// NewRefreshSignal returns a signal at 0.
func NewRefreshSignal() *RefreshSignal {
	return &RefreshSignal{}
}

// Get returns the current refresh key.
func (s *RefreshSignal) Get() int64 {
	return s.key.Load()
}

// Bump increments the key and notifies listeners with the new value. The new
// value is visible to Get before any listener runs.
func (s *RefreshSignal) Bump() {
	v := s.key.Add(1)

	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

// Subscribe registers fn to be called synchronously after every Bump.
func (s *RefreshSignal) Subscribe(fn func(int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

