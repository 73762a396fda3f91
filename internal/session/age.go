package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"feed-go/internal/feed"
)

// AgeSlot keeps the session record encrypted at rest with an X25519 identity.
// The identity lives unencrypted at keyPath (mode 0600) and is generated on
// the first Store.
type AgeSlot struct {
	path    string
	keyPath string
}

var _ feed.SessionSlot = (*AgeSlot)(nil)

var errBadKey = errors.New("malformed session key")

// NewAgeSlot creates an AgeSlot storing ciphertext at path and the identity at keyPath.
func NewAgeSlot(path, keyPath string) *AgeSlot {
	return &AgeSlot{path: path, keyPath: keyPath}
}

// Load decrypts and returns the stored record, or "" if there is none.
// Ciphertext that cannot be decrypted with the slot's key, including a
// missing or malformed key, wraps feed.ErrCorruptSession.
func (s *AgeSlot) Load() (string, error) {
	ciphertext, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}

	identity, err := s.loadIdentity()
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errBadKey) {
		return "", fmt.Errorf("%w: %w", feed.ErrCorruptSession, err)
	}
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return "", fmt.Errorf("%w: decrypting: %w", feed.ErrCorruptSession, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: reading decrypted record: %w", feed.ErrCorruptSession, err)
	}
	return string(plaintext), nil
}

// Store encrypts data to the slot's identity, creating the identity if needed.
func (s *AgeSlot) Store(data string) error {
	identity, err := s.loadOrCreateIdentity()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, identity.Recipient())
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		return fmt.Errorf("encrypting session: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return writeFileAtomic(s.path, buf.Bytes())
}

// Clear removes the encrypted record. The identity is kept.
func (s *AgeSlot) Clear() error {
	return removeIfExists(s.path)
}

func (s *AgeSlot) loadIdentity() (*age.X25519Identity, error) {
	data, err := os.ReadFile(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading session key: %w", err)
	}
	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadKey, err)
	}
	return identity, nil
}

func (s *AgeSlot) loadOrCreateIdentity() (*age.X25519Identity, error) {
	identity, err := s.loadIdentity()
	if err == nil {
		return identity, nil
	}
	// Missing or malformed keys are regenerated.
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, errBadKey) {
		return nil, err
	}

	identity, err = age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0700); err != nil {
		return nil, fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(s.keyPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("writing session key: %w", err)
	}
	return identity, nil
}
