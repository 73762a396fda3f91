package feed

import (
	"net/mail"
	"net/url"
	"strings"
)

// PostInput is what a user supplies when creating or editing a post.
type PostInput struct {
	Title       string
	Description string
	Type        string
	URL         string
}

// normalize trims the text fields and defaults the media type to image.
func (in PostInput) normalize() PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.URL = strings.TrimSpace(in.URL)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = MediaImage
	}
	return in
}

// ValidatePost checks a post input before anything is sent to the store.
func ValidatePost(in PostInput) error {
	in = in.normalize()
	errs := make(ValidationError)

	if in.Title == "" {
		errs.Add("title", "title is required")
	}
	if in.Description == "" {
		errs.Add("description", "description is required")
	}
	if in.URL == "" {
		errs.Add("url", "url is required")
	} else if !IsHTTPURL(in.URL) {
		errs.Add("url", "url must be a valid http or https address")
	}
	if in.Type != MediaImage && in.Type != MediaVideo {
		errs.Add("type", "type must be image or video")
	}

	return errs.errOrNil()
}

// IsHTTPURL reports whether s parses as an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// RegisterInput is what a new user supplies to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ValidateRegister checks a registration before the duplicate-email lookup.
func ValidateRegister(in RegisterInput) error {
	errs := make(ValidationError)

	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", "name is required")
	}
	validateEmail(in.Email, errs)
	if in.Password == "" {
		errs.Add("password", "password is required")
	}

	return errs.errOrNil()
}

// UserInput is what an administrator supplies when editing an account.
type UserInput struct {
	Name   string
	Email  string
	Role   string
	Avatar string
}

// ValidateUser checks an account edit.
func ValidateUser(in UserInput) error {
	errs := make(ValidationError)

	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", "name is required")
	}
	validateEmail(in.Email, errs)
	if in.Role != RoleUser && in.Role != RoleAdmin {
		errs.Add("role", "role must be User or Admin")
	}
	if avatar := strings.TrimSpace(in.Avatar); avatar != "" && !IsHTTPURL(avatar) {
		errs.Add("avatar", "avatar must be a valid http or https address")
	}

	return errs.errOrNil()
}

func validateEmail(email string, errs ValidationError) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "invalid email address")
	}
}
