package feed

import "time"

// Post statuses. Only active posts are ever shown in a feed.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Media kinds a post can carry.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// User roles.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Resource collection names on the remote store.
const (
	CollectionUsers = "users"
	CollectionPosts = "posts"
)

// Post is a single feed entry as stored in the "posts" collection.
type Post struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	Avatar      string     `json:"avatar,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	URL         string     `json:"url"`
	Status      string     `json:"status"`
	CreateDate  time.Time  `json:"createDate"`
	UpdateDate  *time.Time `json:"updateDate,omitempty"`
}

// IsActive reports whether the post is visible in feeds.
func (p *Post) IsActive() bool {
	return p.Status == StatusActive
}

// User is an account record from the "users" collection. Password is only
// populated on records fetched from the store; it is never kept in a Session.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Password   string     `json:"password,omitempty"`
	Role       string     `json:"role"`
	Avatar     string     `json:"avatar,omitempty"`
	CreateDate time.Time  `json:"createDate"`
	UpdateDate *time.Time `json:"updateDate,omitempty"`
}

// IsAdmin reports whether the user may manage other accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the locally persisted, password-stripped copy of the logged-in user.
type Session = User

// stripPassword returns a copy of u without its password.
func stripPassword(u *User) *Session {
	s := *u
	s.Password = ""
	return &s
}

// PostUpdate is a partial update of a post. Nil fields are left unchanged.
type PostUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *string    `json:"type,omitempty"`
	URL         *string    `json:"url,omitempty"`
	Status      *string    `json:"status,omitempty"`
	UpdateDate  *time.Time `json:"updateDate,omitempty"`
}

// Apply writes the non-nil fields of u onto p.
func (u *PostUpdate) Apply(p *Post) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.URL != nil {
		p.URL = *u.URL
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.UpdateDate != nil {
		t := *u.UpdateDate
		p.UpdateDate = &t
	}
}

// UserUpdate is a partial update of a user. Nil fields are left unchanged.
type UserUpdate struct {
	Name       *string    `json:"name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Password   *string    `json:"password,omitempty"`
	Role       *string    `json:"role,omitempty"`
	Avatar     *string    `json:"avatar,omitempty"`
	UpdateDate *time.Time `json:"updateDate,omitempty"`
}

// Apply writes the non-nil fields of u onto usr.
func (u *UserUpdate) Apply(usr *User) {
	if u.Name != nil {
		usr.Name = *u.Name
	}
	if u.Email != nil {
		usr.Email = *u.Email
	}
	if u.Password != nil {
		usr.Password = *u.Password
	}
	if u.Role != nil {
		usr.Role = *u.Role
	}
	if u.Avatar != nil {
		usr.Avatar = *u.Avatar
	}
	if u.UpdateDate != nil {
		t := *u.UpdateDate
		usr.UpdateDate = &t
	}
}
