package feed

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist in the resource store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Login when the email is unknown or
	// the password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by Register when another user already has the email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrForbidden is returned when the session user lacks the Admin role.
	ErrForbidden = errors.New("admin role required")

	// ErrCorruptSession is wrapped by SessionSlot.Load when a stored record
	// exists but can never be read back. Current clears such a slot.
	ErrCorruptSession = errors.New("session record is unreadable")

	// ErrNotOwner is returned when a user tries to change someone else's post.
	ErrNotOwner = errors.New("post belongs to another user")
)

// ValidationError collects field-level problems found before any network call.
// Keys are field names, values are human-readable messages.
type ValidationError map[string]string

// Add records a message for field.
func (v ValidationError) Add(field, message string) {
	v[field] = message
}

// HasErrors reports whether any field failed validation.
func (v ValidationError) HasErrors() bool {
	return len(v) > 0
}

// Error joins all messages in field order.
func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = v[f]
	}
	return strings.Join(msgs, "; ")
}

// errOrNil returns v as an error only when it holds messages, so callers never
// end up with a non-nil interface wrapping an empty map.
func (v ValidationError) errOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
