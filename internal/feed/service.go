package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// FeedService is the orchestration layer between the CLI and the resource
// store: feed queries, post and user mutations, registration and uploads.
// It never touches the RefreshSignal; callers bump it after a successful
// mutation.
type FeedService struct {
	store   ResourceStore
	media   MediaStore
	avatars AvatarGenerator
	logger  Logger
	clock   Clock
}

// NewFeedService creates a FeedService. media may be nil when uploads are not configured.
func NewFeedService(store ResourceStore, media MediaStore, avatars AvatarGenerator, logger Logger, clock Clock) *FeedService {
	return &FeedService{
		store:   store,
		media:   media,
		avatars: avatars,
		logger:  logger,
		clock:   clock,
	}
}

// Feed fetches all posts and returns the requested page of active posts
// matching search, newest first.
func (s *FeedService) Feed(ctx context.Context, page, pageSize int, search string) (*Page, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return Query(posts, page, pageSize, search), nil
}

// PostsByAuthor fetches all posts and returns the requested page of the
// author's active posts, newest first.
func (s *FeedService) PostsByAuthor(ctx context.Context, authorID string, page, pageSize int) (*Page, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return QueryByAuthor(posts, authorID, page, pageSize), nil
}

// GetPost returns a single post.
func (s *FeedService) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.store.GetPost(ctx, id)
}

// CreatePost validates in and creates an active post authored by sess.
func (s *FeedService) CreatePost(ctx context.Context, sess *Session, in PostInput) (*Post, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if err := ValidatePost(in); err != nil {
		return nil, err
	}
	in = in.normalize()

	now := s.clock.Now()
	post := &Post{
		UserID:      sess.ID,
		UserName:    sess.Name,
		Avatar:      s.avatars.UserAvatar(sess, 0),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		URL:         in.URL,
		Status:      StatusActive,
		CreateDate:  now,
		UpdateDate:  &now,
	}

	created, err := s.store.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created", "post_id", created.ID, "user_id", sess.ID)
	return created, nil
}

// UpdatePost validates in and rewrites the content of a post owned by sess,
// stamping a new update date.
func (s *FeedService) UpdatePost(ctx context.Context, sess *Session, id string, in PostInput) (*Post, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if err := ValidatePost(in); err != nil {
		return nil, err
	}

	current, err := s.OwnedPost(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.SavePost(ctx, sess, current, in)
}

// OwnedPost loads a post and returns ErrNotOwner unless sess wrote it.
func (s *FeedService) OwnedPost(ctx context.Context, sess *Session, id string) (*Post, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading post: %w", err)
	}
	if post.UserID != sess.ID {
		return nil, ErrNotOwner
	}
	return post, nil
}

// SavePost writes in over current, a post already loaded with OwnedPost,
// without reading it back from the store first.
func (s *FeedService) SavePost(ctx context.Context, sess *Session, current *Post, in PostInput) (*Post, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if current.UserID != sess.ID {
		return nil, ErrNotOwner
	}
	if err := ValidatePost(in); err != nil {
		return nil, err
	}
	in = in.normalize()

	now := s.clock.Now()
	updated, err := s.store.UpdatePost(ctx, current.ID, &PostUpdate{
		Title:       &in.Title,
		Description: &in.Description,
		Type:        &in.Type,
		URL:         &in.URL,
		UpdateDate:  &now,
	})
	if err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", "post_id", current.ID, "user_id", sess.ID)
	return updated, nil
}

// DeletePost hard-removes a post owned by sess.
func (s *FeedService) DeletePost(ctx context.Context, sess *Session, id string) error {
	if _, err := s.OwnedPost(ctx, sess, id); err != nil {
		return err
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.logger.Info("post deleted", "post_id", id, "user_id", sess.ID)
	return nil
}

// Register creates a new account with the User role after checking that no
// other account uses the email.
func (s *FeedService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := ValidateRegister(in); err != nil {
		return nil, err
	}

	existing, err := findUserByEmail(ctx, s.store, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := s.clock.Now()
	created, err := s.store.CreateUser(ctx, &User{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Password:   in.Password,
		Role:       RoleUser,
		CreateDate: now,
		UpdateDate: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return stripPassword(created), nil
}

// ListUsers returns the accounts matching search (name or email, accent and
// space insensitive). Passwords are stripped. Requires an Admin session.
func (s *FeedService) ListUsers(ctx context.Context, sess *Session, search string) ([]*User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	matched := FilterUsers(users, search)
	out := make([]*User, len(matched))
	for i, u := range matched {
		out[i] = stripPassword(u)
	}
	return out, nil
}

// GetUser returns one account without its password. Requires an Admin session.
func (s *FeedService) GetUser(ctx context.Context, sess *Session, id string) (*User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return stripPassword(u), nil
}

// UpdateUser validates in and rewrites an account's profile fields, stamping
// a new update date. Requires an Admin session.
func (s *FeedService) UpdateUser(ctx context.Context, sess *Session, id string, in UserInput) (*User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if err := ValidateUser(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	avatar := strings.TrimSpace(in.Avatar)
	now := s.clock.Now()

	updated, err := s.store.UpdateUser(ctx, id, &UserUpdate{
		Name:       &name,
		Email:      &email,
		Role:       &in.Role,
		Avatar:     &avatar,
		UpdateDate: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", "user_id", id, "by", sess.ID)
	return stripPassword(updated), nil
}

// DeleteUser hard-removes an account. Requires an Admin session.
func (s *FeedService) DeleteUser(ctx context.Context, sess *Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id, "by", sess.ID)
	return nil
}

func requireAdmin(sess *Session) error {
	if sess == nil {
		return ErrNotLoggedIn
	}
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ErrMediaNotConfigured is returned by UploadMedia when no media store is set up.
var ErrMediaNotConfigured = errors.New("media uploads are not configured")

// UploadMedia stores a local media file for sess and returns its public URL
// and media kind, inferred from the file extension.
func (s *FeedService) UploadMedia(ctx context.Context, sess *Session, filename string, r io.Reader, size int64) (string, string, error) {
	if sess == nil {
		return "", "", ErrNotLoggedIn
	}
	if s.media == nil {
		return "", "", ErrMediaNotConfigured
	}

	ext := strings.ToLower(filepath.Ext(filename))
	kind, contentType, ok := MediaKind(ext)
	if !ok {
		return "", "", ValidationError{"file": fmt.Sprintf("unsupported media extension %q", ext)}
	}

	name := fmt.Sprintf("posts/%s/%d%s", sess.ID, s.clock.Now().UnixNano(), ext)
	url, err := s.media.Upload(ctx, name, contentType, r, size)
	if err != nil {
		return "", "", fmt.Errorf("uploading media: %w", err)
	}

	s.logger.Info("media uploaded", "name", name, "size", size)
	return url, kind, nil
}

var mediaExtensions = map[string]struct{ kind, contentType string }{
	".jpg":  {MediaImage, "image/jpeg"},
	".jpeg": {MediaImage, "image/jpeg"},
	".png":  {MediaImage, "image/png"},
	".gif":  {MediaImage, "image/gif"},
	".webp": {MediaImage, "image/webp"},
	".mp4":  {MediaVideo, "video/mp4"},
	".mov":  {MediaVideo, "video/quicktime"},
	".webm": {MediaVideo, "video/webm"},
}

// MediaKind maps a lower-case file extension to a post media kind and content type.
func MediaKind(ext string) (kind, contentType string, ok bool) {
	m, ok := mediaExtensions[ext]
	return m.kind, m.contentType, ok
}
