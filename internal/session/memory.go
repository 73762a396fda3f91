package session

import (
	"sync"

	"feed-go/internal/feed"
)

// MemorySlot keeps the session record in memory. Safe for concurrent use.
type MemorySlot struct {
	mu   sync.Mutex
	data string
}

var _ feed.SessionSlot = (*MemorySlot)(nil)

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, nil
}

func (s *MemorySlot) Store(data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ""
	return nil
}
