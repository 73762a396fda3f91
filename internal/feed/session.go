package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SessionStore authenticates against the resource store and keeps the
// logged-in user in a SessionSlot. Credentials are compared in plaintext
// against the fetched user records.
type SessionStore struct {
	store  ResourceStore
	slot   SessionSlot
	logger Logger
}

// NewSessionStore creates a SessionStore over the given store and slot.
func NewSessionStore(store ResourceStore, slot SessionSlot, logger Logger) *SessionStore {
	return &SessionStore{store: store, slot: slot, logger: logger}
}

// Login looks the user up by email and checks the password. On success the
// password-stripped record is persisted and returned; on failure the slot is
// left untouched and the error wraps ErrInvalidCredentials.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := findUserByEmail(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		s.logger.Warn("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	sess := stripPassword(user)
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := s.slot.Store(string(data)); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.logger.Info("logged in", "user_id", sess.ID, "role", sess.Role)
	return sess, nil
}

// Logout clears the persisted session.
func (s *SessionStore) Logout() error {
	if err := s.slot.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Current returns the persisted session, or nil when nobody is logged in.
// A record that cannot be decoded or parsed, or has no ID, is cleared and
// treated as absent.
func (s *SessionStore) Current() (*Session, error) {
	data, err := s.slot.Load()
	if errors.Is(err, ErrCorruptSession) {
		s.logger.Warn("discarding unreadable session", "error", err)
		if err := s.slot.Clear(); err != nil {
			return nil, fmt.Errorf("clearing corrupt session: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if data == "" {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil || sess.ID == "" {
		s.logger.Warn("discarding corrupt session record")
		if err := s.slot.Clear(); err != nil {
			return nil, fmt.Errorf("clearing corrupt session: %w", err)
		}
		return nil, nil
	}
	sess.Password = ""
	return &sess, nil
}

// Require returns the current session or ErrNotLoggedIn.
func (s *SessionStore) Require() (*Session, error) {
	sess, err := s.Current()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	return sess, nil
}

// findUserByEmail fetches all users and returns the first whose email matches,
// ignoring case and surrounding space. Returns nil when there is no match.
func findUserByEmail(ctx context.Context, store ResourceStore, email string) (*User, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	want := strings.ToLower(strings.TrimSpace(email))
	if want == "" {
		return nil, nil
	}
	for _, u := range users {
		if strings.ToLower(strings.TrimSpace(u.Email)) == want {
			return u, nil
		}
	}
	return nil, nil
}
