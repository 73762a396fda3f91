// Package session provides the SessionSlot implementations that hold the
// serialized logged-in user between CLI invocations.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"feed-go/internal/feed"
)

// FileSlot keeps the session record in a single plaintext file.
type FileSlot struct {
	path string
}

var _ feed.SessionSlot = (*FileSlot)(nil)

// NewFileSlot creates a FileSlot backed by path. The file is created on first Store.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Load returns the stored record, or "" if the file does not exist.
func (s *FileSlot) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}
	return string(data), nil
}

// Store replaces the record. The write goes through a temp file and a rename
// so a crash never leaves a half-written record behind.
func (s *FileSlot) Store(data string) error {
	return writeFileAtomic(s.path, []byte(data))
}

// Clear removes the file. Clearing an empty slot is not an error.
func (s *FileSlot) Clear() error {
	return removeIfExists(s.path)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting session permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
