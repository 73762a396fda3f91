package feed

import (
	"net/url"
	"strconv"
)

// DefaultAvatarEndpoint generates placeholder images from a name.
const DefaultAvatarEndpoint = "https://ui-avatars.com/api/"

// AvatarGenerator builds deterministic placeholder avatar URLs.
type AvatarGenerator struct {
	Endpoint string
}

// URL returns the placeholder avatar for name at the given pixel size.
// The same name and size always yield the same URL.
func (g AvatarGenerator) URL(name string, size int) string {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = DefaultAvatarEndpoint
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "00d084")
	q.Set("color", "fff")
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return endpoint + "?" + q.Encode()
}

// PostAvatar returns the post's avatar, falling back to a generated one from the author name.
func (g AvatarGenerator) PostAvatar(p *Post, size int) string {
	if p.Avatar != "" {
		return p.Avatar
	}
	return g.URL(p.UserName, size)
}

// UserAvatar returns the user's avatar, falling back to a generated one from the name.
func (g AvatarGenerator) UserAvatar(u *User, size int) string {
	if u.Avatar != "" {
		return u.Avatar
	}
	return g.URL(u.Name, size)
}
