package feed

import (
	"context"
	"fmt"
)

// FeedView is a scrolling view over the feed: it accumulates pages as the
// reader asks for more, and starts over from page 1 whenever the search term
// changes or the RefreshSignal has moved since the last load.
// A FeedView is not safe for concurrent use; superseded fetches are not
// cancelled and the last completed load wins.
type FeedView struct {
	service  *FeedService
	signal   *RefreshSignal
	pageSize int
	authorID string
	search   string

	loaded  bool
	seenKey int64
	page    int
	items   []*Post
	total   int
	hasMore bool
}

// NewFeedView creates a view over the whole feed.
func NewFeedView(service *FeedService, signal *RefreshSignal, pageSize int) *FeedView {
	return &FeedView{service: service, signal: signal, pageSize: pageSize}
}

// NewAuthorView creates a view restricted to one author's posts.
func NewAuthorView(service *FeedService, signal *RefreshSignal, authorID string, pageSize int) *FeedView {
	return &FeedView{service: service, signal: signal, pageSize: pageSize, authorID: authorID}
}

// Load discards accumulated pages and fetches page 1.
func (v *FeedView) Load(ctx context.Context) error {
	// Read the key before fetching so a bump during the fetch triggers another load.
	key := v.signal.Get()

	page, err := v.fetch(ctx, 1)
	if err != nil {
		return err
	}

	v.loaded = true
	v.seenKey = key
	v.page = 1
	v.items = append([]*Post(nil), page.Items...)
	v.total = page.Total
	v.hasMore = page.HasMore
	return nil
}

// SetSearch changes the search term and reloads from page 1.
// Author views ignore the search term.
func (v *FeedView) SetSearch(ctx context.Context, search string) error {
	v.search = search
	return v.Load(ctx)
}

// LoadMore appends the next page. It is a no-op when there is nothing more.
// Returns the number of posts added.
func (v *FeedView) LoadMore(ctx context.Context) (int, error) {
	if !v.loaded {
		if err := v.Load(ctx); err != nil {
			return 0, err
		}
		return len(v.items), nil
	}
	if !v.hasMore {
		return 0, nil
	}

	page, err := v.fetch(ctx, v.page+1)
	if err != nil {
		return 0, err
	}

	v.page++
	v.items = append(v.items, page.Items...)
	v.total = page.Total
	v.hasMore = page.HasMore
	return len(page.Items), nil
}

// Sync reloads from page 1 if the view was never loaded or the refresh key
// changed since the last load. Reports whether a reload happened.
func (v *FeedView) Sync(ctx context.Context) (bool, error) {
	if v.loaded && v.signal.Get() == v.seenKey {
		return false, nil
	}
	if err := v.Load(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (v *FeedView) fetch(ctx context.Context, page int) (*Page, error) {
	var (
		p   *Page
		err error
	)
	if v.authorID != "" {
		p, err = v.service.PostsByAuthor(ctx, v.authorID, page, v.pageSize)
	} else {
		p, err = v.service.Feed(ctx, page, v.pageSize, v.search)
	}
	if err != nil {
		return nil, fmt.Errorf("loading page %d: %w", page, err)
	}
	return p, nil
}

// Items returns the posts accumulated so far.
func (v *FeedView) Items() []*Post { return v.items }

// Total returns the number of posts matching the view's filters.
func (v *FeedView) Total() int { return v.total }

// HasMore reports whether LoadMore would fetch another non-empty page.
func (v *FeedView) HasMore() bool { return v.hasMore }

// Search returns the current search term.
func (v *FeedView) Search() string { return v.search }

// Page returns the number of pages loaded.
func (v *FeedView) Page() int { return v.page }
