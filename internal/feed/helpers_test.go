package feed_test

import (
	"context"
	"sync/atomic"
	"testing"

	"feed-go/internal/feed"
	"feed-go/internal/session"
	"feed-go/internal/testutil"
)

// countingStore wraps a ResourceStore and counts every call made to it.
type countingStore struct {
	feed.ResourceStore
	calls atomic.Int32
}

func (c *countingStore) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	c.calls.Add(1)
	return c.ResourceStore.ListPosts(ctx)
}

func (c *countingStore) GetPost(ctx context.Context, id string) (*feed.Post, error) {
	c.calls.Add(1)
	return c.ResourceStore.GetPost(ctx, id)
}

func (c *countingStore) CreatePost(ctx context.Context, p *feed.Post) (*feed.Post, error) {
	c.calls.Add(1)
	return c.ResourceStore.CreatePost(ctx, p)
}

func (c *countingStore) UpdatePost(ctx context.Context, id string, u *feed.PostUpdate) (*feed.Post, error) {
	c.calls.Add(1)
	return c.ResourceStore.UpdatePost(ctx, id, u)
}

func (c *countingStore) DeletePost(ctx context.Context, id string) error {
	c.calls.Add(1)
	return c.ResourceStore.DeletePost(ctx, id)
}

func (c *countingStore) ListUsers(ctx context.Context) ([]*feed.User, error) {
	c.calls.Add(1)
	return c.ResourceStore.ListUsers(ctx)
}

func (c *countingStore) UpdateUser(ctx context.Context, id string, u *feed.UserUpdate) (*feed.User, error) {
	c.calls.Add(1)
	return c.ResourceStore.UpdateUser(ctx, id, u)
}

func (c *countingStore) DeleteUser(ctx context.Context, id string) error {
	c.calls.Add(1)
	return c.ResourceStore.DeleteUser(ctx, id)
}

type fixture struct {
	store   *countingStore
	slot    *session.MemorySlot
	clock   *testutil.StubClock
	service *feed.FeedService
	session *feed.SessionStore
	signal  *feed.RefreshSignal
}

func newFixture(t *testing.T, media feed.MediaStore) *fixture {
	t.Helper()

	store := &countingStore{ResourceStore: testutil.NewTestStore(t)}
	slot := session.NewMemorySlot()
	clock := testutil.FixedClock()
	logger := feed.NewNopLogger()

	return &fixture{
		store:   store,
		slot:    slot,
		clock:   clock,
		service: feed.NewFeedService(store, media, feed.AvatarGenerator{}, logger, clock),
		session: feed.NewSessionStore(store, slot, logger),
		signal:  feed.NewRefreshSignal(),
	}
}
