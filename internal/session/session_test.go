package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"feed-go/internal/config"
	"feed-go/internal/feed"
)

func slotsUnderTest(t *testing.T) map[string]feed.SessionSlot {
	t.Helper()
	dir := t.TempDir()
	return map[string]feed.SessionSlot{
		"file":   NewFileSlot(filepath.Join(dir, "file", "session.json")),
		"age":    NewAgeSlot(filepath.Join(dir, "age", "session.age"), filepath.Join(dir, "age", "keys", "session.key")),
		"memory": NewMemorySlot(),
	}
}

func TestSlot_EmptyLoad(t *testing.T) {
	for name, slot := range slotsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			got, err := slot.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != "" {
				t.Errorf("Load() = %q, want empty", got)
			}
		})
	}
}

func TestSlot_StoreLoadClear(t *testing.T) {
	const record = `{"id":"7","name":"Ana","email":"ana@example.com","role":"User"}`

	for name, slot := range slotsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := slot.Store(record); err != nil {
				t.Fatalf("Store() error = %v", err)
			}

			got, err := slot.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != record {
				t.Errorf("Load() = %q, want %q", got, record)
			}

			if err := slot.Store(`{"id":"8"}`); err != nil {
				t.Fatalf("second Store() error = %v", err)
			}
			got, _ = slot.Load()
			if got != `{"id":"8"}` {
				t.Errorf("Load() after overwrite = %q", got)
			}

			if err := slot.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			got, err = slot.Load()
			if err != nil {
				t.Fatalf("Load() after Clear error = %v", err)
			}
			if got != "" {
				t.Errorf("Load() after Clear = %q, want empty", got)
			}

			// Clearing twice is fine.
			if err := slot.Clear(); err != nil {
				t.Errorf("second Clear() error = %v", err)
			}
		})
	}
}

func TestFileSlot_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	slot := NewFileSlot(path)

	if err := slot.Store("{}"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestAgeSlot_CiphertextOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.age")
	keyPath := filepath.Join(dir, "session.key")
	slot := NewAgeSlot(path, keyPath)

	if err := slot.Store(`{"email":"secret@example.com"}`); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading session file: %v", err)
	}
	if strings.Contains(string(raw), "secret@example.com") {
		t.Error("session file contains plaintext")
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("reading key file: %v", err)
	}
	if !strings.HasPrefix(string(key), "AGE-SECRET-KEY-") {
		t.Errorf("key file does not hold an age identity")
	}

	// A second slot over the same files reads the record back.
	got, err := NewAgeSlot(path, keyPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != `{"email":"secret@example.com"}` {
		t.Errorf("Load() = %q", got)
	}
}

func TestAgeSlot_WrongKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.age")

	if err := NewAgeSlot(path, filepath.Join(dir, "a.key")).Store("{}"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	// Generate a different identity.
	other := NewAgeSlot(filepath.Join(dir, "other.age"), filepath.Join(dir, "b.key"))
	if err := other.Store("{}"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if _, err := NewAgeSlot(path, filepath.Join(dir, "b.key")).Load(); !errors.Is(err, feed.ErrCorruptSession) {
		t.Errorf("Load() with the wrong key error = %v, want ErrCorruptSession", err)
	}
}

func TestAgeSlot_UnreadableRecord(t *testing.T) {
	tests := []struct {
		name  string
		spoil func(t *testing.T, path, keyPath string)
	}{
		{"garbage ciphertext", func(t *testing.T, path, _ string) {
			if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
				t.Fatal(err)
			}
		}},
		{"key removed", func(t *testing.T, _, keyPath string) {
			if err := os.Remove(keyPath); err != nil {
				t.Fatal(err)
			}
		}},
		{"key malformed", func(t *testing.T, _, keyPath string) {
			if err := os.WriteFile(keyPath, []byte("not a key\n"), 0600); err != nil {
				t.Fatal(err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "session.age")
			keyPath := filepath.Join(dir, "session.key")
			slot := NewAgeSlot(path, keyPath)
			if err := slot.Store(`{"id":"7"}`); err != nil {
				t.Fatalf("Store() error = %v", err)
			}

			tt.spoil(t, path, keyPath)

			if _, err := slot.Load(); !errors.Is(err, feed.ErrCorruptSession) {
				t.Errorf("Load() error = %v, want ErrCorruptSession", err)
			}
		})
	}
}

func TestNewSlotFromConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.SessionConfig
		wantErr bool
	}{
		{name: "file", cfg: config.SessionConfig{Type: "file", Path: filepath.Join(dir, "s.json")}},
		{name: "empty type defaults to file", cfg: config.SessionConfig{Path: filepath.Join(dir, "s.json")}},
		{name: "age", cfg: config.SessionConfig{Type: "age", Path: filepath.Join(dir, "s.age"), KeyPath: filepath.Join(dir, "s.key")}},
		{name: "memory", cfg: config.SessionConfig{Type: "memory"}},
		{name: "file without path", cfg: config.SessionConfig{Type: "file"}, wantErr: true},
		{name: "age without key", cfg: config.SessionConfig{Type: "age", Path: filepath.Join(dir, "s.age")}, wantErr: true},
		{name: "unknown", cfg: config.SessionConfig{Type: "keychain"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSlotFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSlotFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got == nil {
				t.Fatal("NewSlotFromConfig() returned nil slot")
			}
		})
	}
}
