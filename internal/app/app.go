package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feed-go/internal/config"
	"feed-go/internal/feed"
	"feed-go/internal/media"
	"feed-go/internal/resource"
	"feed-go/internal/session"
)

// FeedApp is the application layer between the CLI and FeedService.
// It constructs all dependencies from config, owns the session-wide
// RefreshSignal and bumps it after every successful mutation, and closes the
// log on Close.
type FeedApp struct {
	cfg      *config.Config
	client   *resource.Client
	sessions *feed.SessionStore
	service  *feed.FeedService
	signal   *feed.RefreshSignal
	avatars  feed.AvatarGenerator
	logger   feed.Logger
	op       *Operation
	logFile  *os.File
}

// NewFeedApp creates a fully wired FeedApp from the given config.
// operation identifies the CLI command being run (e.g. "Login", "PostCreate").
// The caller must call Close when done.
func NewFeedApp(ctx context.Context, cfg *config.Config, operation string, verbose bool) (*FeedApp, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no resource store configured: set base_url in the config file")
	}

	slot, err := session.NewSlotFromConfig(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("creating session slot: %w", err)
	}

	mediaStore, err := media.NewMediaFromConfig(ctx, cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("creating media store: %w", err)
	}

	clock := feed.RealClock{}
	op := NewOperation(operation, "", clock.Now())
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	avatars := feed.AvatarGenerator{Endpoint: cfg.AvatarEndpoint}
	client := resource.NewClient(cfg.BaseURL, logger)

	return &FeedApp{
		cfg:      cfg,
		client:   client,
		sessions: feed.NewSessionStore(client, slot, logger),
		service:  feed.NewFeedService(client, mediaStore, avatars, logger, clock),
		signal:   feed.NewRefreshSignal(),
		avatars:  avatars,
		logger:   logger,
		op:       op,
		logFile:  logFile,
	}, nil
}

// mutated records a successful mutation and invalidates every feed view.
func (a *FeedApp) mutated() {
	a.op.Mutations++
	a.signal.Bump()
}

// Signal returns the session-wide refresh signal.
func (a *FeedApp) Signal() *feed.RefreshSignal { return a.signal }

// Avatars returns the avatar generator used for display fallbacks.
func (a *FeedApp) Avatars() feed.AvatarGenerator { return a.avatars }

// PageSize returns size, or the configured page size when size is not positive.
func (a *FeedApp) PageSize(size int) int {
	if size > 0 {
		return size
	}
	if a.cfg.PageSize > 0 {
		return a.cfg.PageSize
	}
	return config.DefaultPageSize
}

// Session operations

// Login authenticates and persists the session.
func (a *FeedApp) Login(ctx context.Context, email, password string) (*feed.Session, error) {
	sess, err := a.sessions.Login(ctx, email, password)
	return sess, a.op.Record(err)
}

// Logout clears the persisted session.
func (a *FeedApp) Logout() error {
	return a.op.Record(a.sessions.Logout())
}

// Whoami returns the current session, or nil when nobody is logged in.
func (a *FeedApp) Whoami() (*feed.Session, error) {
	sess, err := a.sessions.Current()
	return sess, a.op.Record(err)
}

// Register creates a new account. It does not log the new user in.
func (a *FeedApp) Register(ctx context.Context, in feed.RegisterInput) (*feed.User, error) {
	u, err := a.service.Register(ctx, in)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.mutated()
	return u, nil
}

// Post operations

// Feed returns one page of the feed.
func (a *FeedApp) Feed(ctx context.Context, page, size int, search string) (*feed.Page, error) {
	p, err := a.service.Feed(ctx, page, a.PageSize(size), search)
	return p, a.op.Record(err)
}

// Profile returns one page of authorID's posts. An empty authorID means the
// logged-in user.
func (a *FeedApp) Profile(ctx context.Context, authorID string, page, size int) (*feed.Page, error) {
	if authorID == "" {
		sess, err := a.sessions.Require()
		if err != nil {
			return nil, a.op.Record(err)
		}
		authorID = sess.ID
	}
	p, err := a.service.PostsByAuthor(ctx, authorID, page, a.PageSize(size))
	return p, a.op.Record(err)
}

// NewFeedView creates a scrolling view over the feed, or over authorID's
// posts when authorID is non-empty.
func (a *FeedApp) NewFeedView(authorID string, size int) *feed.FeedView {
	if authorID != "" {
		return feed.NewAuthorView(a.service, a.signal, authorID, a.PageSize(size))
	}
	return feed.NewFeedView(a.service, a.signal, a.PageSize(size))
}

// GetPost returns a single post.
func (a *FeedApp) GetPost(ctx context.Context, id string) (*feed.Post, error) {
	p, err := a.service.GetPost(ctx, id)
	return p, a.op.Record(err)
}

// CreatePost creates a post as the logged-in user. When file is non-empty it
// is uploaded first and its URL and media kind replace in.URL and in.Type.
func (a *FeedApp) CreatePost(ctx context.Context, in feed.PostInput, file string) (*feed.Post, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return nil, a.op.Record(err)
	}

	if file != "" {
		url, kind, err := a.upload(ctx, sess, file)
		if err != nil {
			return nil, a.op.Record(err)
		}
		in.URL = url
		in.Type = kind
	}

	p, err := a.service.CreatePost(ctx, sess, in)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.mutated()
	return p, nil
}

func (a *FeedApp) upload(ctx context.Context, sess *feed.Session, path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("opening media file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", "", fmt.Errorf("stat media file: %w", err)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("%s is a directory", path)
	}

	return a.service.UploadMedia(ctx, sess, filepath.Base(path), f, info.Size())
}

// UpdatePost loads a post owned by the logged-in user, lets edit change its
// content and saves the result. Ownership is checked before edit runs, so a
// caller that prompts inside edit never asks a non-owner anything. An error
// from edit abandons the update.
func (a *FeedApp) UpdatePost(ctx context.Context, id string, edit func(in *feed.PostInput) error) (*feed.Post, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return nil, a.op.Record(err)
	}

	current, err := a.service.OwnedPost(ctx, sess, id)
	if err != nil {
		return nil, a.op.Record(err)
	}
	in := feed.PostInput{
		Title:       current.Title,
		Description: current.Description,
		Type:        current.Type,
		URL:         current.URL,
	}
	if err := edit(&in); err != nil {
		return nil, a.op.Record(err)
	}

	p, err := a.service.SavePost(ctx, sess, current, in)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.mutated()
	return p, nil
}

// DeletePost removes a post owned by the logged-in user.
func (a *FeedApp) DeletePost(ctx context.Context, id string) error {
	sess, err := a.sessions.Require()
	if err != nil {
		return a.op.Record(err)
	}
	if err := a.service.DeletePost(ctx, sess, id); err != nil {
		return a.op.Record(err)
	}
	a.mutated()
	return nil
}

// User operations

// Users lists accounts matching search. Requires an Admin session.
func (a *FeedApp) Users(ctx context.Context, search string) ([]*feed.User, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return nil, a.op.Record(err)
	}
	users, err := a.service.ListUsers(ctx, sess, search)
	return users, a.op.Record(err)
}

// User returns one account. Requires an Admin session.
func (a *FeedApp) User(ctx context.Context, id string) (*feed.User, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return nil, a.op.Record(err)
	}
	u, err := a.service.GetUser(ctx, sess, id)
	return u, a.op.Record(err)
}

// UpdateUser loads an account, lets edit change its profile fields and saves
// the result. Requires an Admin session.
func (a *FeedApp) UpdateUser(ctx context.Context, id string, edit func(in *feed.UserInput)) (*feed.User, error) {
	sess, err := a.sessions.Require()
	if err != nil {
		return nil, a.op.Record(err)
	}

	current, err := a.service.GetUser(ctx, sess, id)
	if err != nil {
		return nil, a.op.Record(err)
	}
	in := feed.UserInput{
		Name:   current.Name,
		Email:  current.Email,
		Role:   current.Role,
		Avatar: current.Avatar,
	}
	edit(&in)

	u, err := a.service.UpdateUser(ctx, sess, id, in)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.mutated()
	return u, nil
}

// DeleteUser removes an account. Requires an Admin session.
func (a *FeedApp) DeleteUser(ctx context.Context, id string) error {
	sess, err := a.sessions.Require()
	if err != nil {
		return a.op.Record(err)
	}
	if err := a.service.DeleteUser(ctx, sess, id); err != nil {
		return a.op.Record(err)
	}
	a.mutated()
	return nil
}

// Close logs the operation outcome and closes the log file.
func (a *FeedApp) Close() error {
	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"mutations", a.op.Mutations,
		"elapsed", time.Since(a.op.Start).Truncate(time.Millisecond),
	)

	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
