package testutil

import (
	"context"
	"testing"
	"time"

	"feed-go/internal/feed"
	"feed-go/internal/store"
)

// NewTestStore creates an empty in-memory resource store with sequential IDs.
func NewTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore(NewStubIDGenerator())
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedUser creates a user directly in s.
func SeedUser(t *testing.T, s feed.ResourceStore, name, email, password, role string) *feed.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), &feed.User{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       role,
		CreateDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return u
}

// SeedPost creates an image post by author directly in s.
func SeedPost(t *testing.T, s feed.ResourceStore, author *feed.User, title, status string, created time.Time) *feed.Post {
	t.Helper()

	p, err := s.CreatePost(context.Background(), &feed.Post{
		UserID:      author.ID,
		UserName:    author.Name,
		Title:       title,
		Description: title + " description",
		Type:        feed.MediaImage,
		URL:         "https://example.com/" + title + ".png",
		Status:      status,
		CreateDate:  created,
	})
	if err != nil {
		t.Fatalf("seeding post %q: %v", title, err)
	}
	return p
}
