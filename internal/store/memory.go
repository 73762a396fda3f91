package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"feed-go/internal/feed"
)

// MemoryStore is an in-memory implementation of feed.ResourceStore.
// Records are listed in insertion order. It hands out copies, so callers
// can never mutate stored records. Safe for concurrent use.
type MemoryStore struct {
	idgen feed.IDGenerator

	mu        sync.RWMutex
	posts     map[string]*feed.Post
	postOrder []string
	users     map[string]*feed.User
	userOrder []string
}

// NewMemoryStore creates an empty store that assigns IDs with idgen.
func NewMemoryStore(idgen feed.IDGenerator) *MemoryStore {
	return &MemoryStore{
		idgen: idgen,
		posts: make(map[string]*feed.Post),
		users: make(map[string]*feed.User),
	}
}

// Post operations

func (m *MemoryStore) ListPosts(_ context.Context) ([]*feed.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*feed.Post, 0, len(m.postOrder))
	for _, id := range m.postOrder {
		out = append(out, copyPost(m.posts[id]))
	}
	return out, nil
}

func (m *MemoryStore) GetPost(_ context.Context, id string) (*feed.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	return copyPost(p), nil
}

func (m *MemoryStore) CreatePost(_ context.Context, p *feed.Post) (*feed.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyPost(p)
	if stored.ID == "" {
		stored.ID = m.idgen.New()
	}
	if _, exists := m.posts[stored.ID]; exists {
		return nil, fmt.Errorf("post %s already exists", stored.ID)
	}

	m.posts[stored.ID] = stored
	m.postOrder = append(m.postOrder, stored.ID)
	return copyPost(stored), nil
}

func (m *MemoryStore) UpdatePost(_ context.Context, id string, u *feed.PostUpdate) (*feed.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	u.Apply(p)
	return copyPost(p), nil
}

func (m *MemoryStore) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, feed.ErrNotFound)
	}
	delete(m.posts, id)
	m.postOrder = slices.DeleteFunc(m.postOrder, func(s string) bool { return s == id })
	return nil
}

// User operations

func (m *MemoryStore) ListUsers(_ context.Context) ([]*feed.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*feed.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		out = append(out, copyUser(m.users[id]))
	}
	return out, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*feed.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
	}
	return copyUser(u), nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u *feed.User) (*feed.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyUser(u)
	if stored.ID == "" {
		stored.ID = m.idgen.New()
	}
	if _, exists := m.users[stored.ID]; exists {
		return nil, fmt.Errorf("user %s already exists", stored.ID)
	}

	m.users[stored.ID] = stored
	m.userOrder = append(m.userOrder, stored.ID)
	return copyUser(stored), nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, id string, upd *feed.UserUpdate) (*feed.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
	}
	upd.Apply(u)
	return copyUser(u), nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, feed.ErrNotFound)
	}
	delete(m.users, id)
	m.userOrder = slices.DeleteFunc(m.userOrder, func(s string) bool { return s == id })
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func copyPost(p *feed.Post) *feed.Post {
	c := *p
	if p.UpdateDate != nil {
		t := *p.UpdateDate
		c.UpdateDate = &t
	}
	return &c
}

func copyUser(u *feed.User) *feed.User {
	c := *u
	if u.UpdateDate != nil {
		t := *u.UpdateDate
		c.UpdateDate = &t
	}
	return &c
}

// Compile-time check that MemoryStore implements feed.ResourceStore
var _ feed.ResourceStore = (*MemoryStore)(nil)
