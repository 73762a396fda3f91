// Package resource is the HTTP client for the remote REST resource store.
// Every collection is exposed as GET /<c>, GET /<c>/{id}, POST /<c>,
// PUT /<c>/{id} and DELETE /<c>/{id}. Filtering is never delegated to the
// server: lists always fetch the whole collection.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"feed-go/internal/feed"
)

// Client implements feed.ResourceStore against a remote resource store.
// Requests are neither retried nor given a timeout beyond ctx.
type Client struct {
	http   *resty.Client
	logger feed.Logger
}

// NewClient creates a Client for the store rooted at baseURL.
func NewClient(baseURL string, logger feed.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{http: httpClient, logger: logger}
}

// Post operations

func (c *Client) ListPosts(ctx context.Context) ([]*feed.Post, error) {
	var posts []*feed.Post
	if err := c.do(ctx, opListPosts, http.MethodGet, "/"+feed.CollectionPosts, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*feed.Post, error) {
	var p feed.Post
	if err := c.do(ctx, opGetPost, http.MethodGet, itemPath(feed.CollectionPosts, id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, in *feed.Post) (*feed.Post, error) {
	var p feed.Post
	if err := c.do(ctx, opCreatePost, http.MethodPost, "/"+feed.CollectionPosts, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, u *feed.PostUpdate) (*feed.Post, error) {
	var p feed.Post
	if err := c.do(ctx, opUpdatePost, http.MethodPut, itemPath(feed.CollectionPosts, id), u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, opDeletePost, http.MethodDelete, itemPath(feed.CollectionPosts, id), nil, nil)
}

// User operations

func (c *Client) ListUsers(ctx context.Context) ([]*feed.User, error) {
	var users []*feed.User
	if err := c.do(ctx, opListUsers, http.MethodGet, "/"+feed.CollectionUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*feed.User, error) {
	var u feed.User
	if err := c.do(ctx, opGetUser, http.MethodGet, itemPath(feed.CollectionUsers, id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, in *feed.User) (*feed.User, error) {
	var u feed.User
	if err := c.do(ctx, opCreateUser, http.MethodPost, "/"+feed.CollectionUsers, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd *feed.UserUpdate) (*feed.User, error) {
	var u feed.User
	if err := c.do(ctx, opUpdateUser, http.MethodPut, itemPath(feed.CollectionUsers, id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, opDeleteUser, http.MethodDelete, itemPath(feed.CollectionUsers, id), nil, nil)
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

// do sends one request and decodes a 2xx JSON body into out (when non-nil).
// Any transport failure or non-2xx status becomes an *Error.
func (c *Client) do(ctx context.Context, op operation, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	c.logger.Debug("resource request", "method", method, "path", path)

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("resource request failed", "method", method, "path", path, "error", err)
		return &Error{Op: op.String(), Message: transportMessage(err, op), Err: err}
	}

	if resp.IsError() || resp.StatusCode() >= 300 {
		e := &Error{
			Op:      op.String(),
			Status:  resp.StatusCode(),
			Message: serverMessage(resp.Body(), op),
		}
		c.logger.Warn("resource request rejected", "method", method, "path", path, "status", e.Status, "message", e.Message)
		return e
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{Op: op.String(), Status: resp.StatusCode(), Message: op.defaultMessage(), Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// Compile-time check that Client implements feed.ResourceStore
var _ feed.ResourceStore = (*Client)(nil)
