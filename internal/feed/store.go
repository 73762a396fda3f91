package feed

import (
	"context"
	"io"
)

// ResourceStore is the collection-oriented persistence behind the feed: the
// remote REST resource store on the client side, or a local database when
// serving. Lookups of missing records return an error wrapping ErrNotFound.
type ResourceStore interface {
	// Post operations

	// ListPosts returns every post in the store, in store order.
	ListPosts(ctx context.Context) ([]*Post, error)

	// GetPost returns a single post by ID.
	GetPost(ctx context.Context, id string) (*Post, error)

	// CreatePost stores a new post and returns it as stored. The store
	// assigns the ID when p.ID is empty.
	CreatePost(ctx context.Context, p *Post) (*Post, error)

	// UpdatePost applies a partial update and returns the resulting post.
	UpdatePost(ctx context.Context, id string, u *PostUpdate) (*Post, error)

	// DeletePost hard-removes a post.
	DeletePost(ctx context.Context, id string) error

	// User operations

	// ListUsers returns every user in the store, passwords included.
	ListUsers(ctx context.Context) ([]*User, error)

	// GetUser returns a single user by ID.
	GetUser(ctx context.Context, id string) (*User, error)

	// CreateUser stores a new user and returns it as stored.
	CreateUser(ctx context.Context, u *User) (*User, error)

	// UpdateUser applies a partial update and returns the resulting user.
	UpdateUser(ctx context.Context, id string, u *UserUpdate) (*User, error)

	// DeleteUser hard-removes a user.
	DeleteUser(ctx context.Context, id string) error
}

// SessionSlot is a single string-keyed slot holding the serialized session.
// Load returns ("", nil) when the slot is empty.
type SessionSlot interface {
	Load() (string, error)
	Store(data string) error
	Clear() error
}

// MediaStore uploads post media and returns a public URL for it.
type MediaStore interface {
	// Upload stores size bytes read from r under name and returns the public URL.
	Upload(ctx context.Context, name string, contentType string, r io.Reader, size int64) (string, error)
}
