package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseURL:  "https://example.mockapi.io/api/v1",
		BaseDir:  "/home/user/.local/share/feed",
		LogDir:   "/home/user/.local/share/feed/log",
		PageSize: 10,
		Session: SessionConfig{
			Type:    "age",
			Path:    "/home/user/.local/share/feed/session.age",
			KeyPath: "/home/user/.local/share/feed/keys/session.key",
		},
		Store: StoreConfig{Type: "sqlite", Listen: ":9090", DataDir: "/home/user/.local/share/feed/store"},
		Media: MediaConfig{Type: "s3", S3Bucket: "feed-media", S3Region: "eu-west-1"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseURL != original.BaseURL {
		t.Errorf("BaseURL = %q, want %q", got.BaseURL, original.BaseURL)
	}
	if got.PageSize != 10 {
		t.Errorf("PageSize = %d, want %d", got.PageSize, 10)
	}
	if got.Session.Type != "age" {
		t.Errorf("Session.Type = %q, want %q", got.Session.Type, "age")
	}
	if got.Session.KeyPath != original.Session.KeyPath {
		t.Errorf("Session.KeyPath = %q, want %q", got.Session.KeyPath, original.Session.KeyPath)
	}
	if got.Store.Listen != ":9090" {
		t.Errorf("Store.Listen = %q, want %q", got.Store.Listen, ":9090")
	}
	if got.Store.DataDir != original.Store.DataDir {
		t.Errorf("Store.DataDir = %q, want %q", got.Store.DataDir, original.Store.DataDir)
	}
	if got.Media.S3Bucket != "feed-media" {
		t.Errorf("Media.S3Bucket = %q, want %q", got.Media.S3Bucket, "feed-media")
	}
}

func TestManager_Read_DefaultsPageSize(t *testing.T) {
	m := &Manager{}
	got, err := m.Read(strings.NewReader(`base_url = "http://localhost:8080"`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", got.PageSize, DefaultPageSize)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("http://localhost:8080", "/data/feed")

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "http://localhost:8080")
	}
	if cfg.LogDir != "/data/feed/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/feed/log")
	}
	if cfg.Session.Path != "/data/feed/session.json" {
		t.Errorf("Session.Path = %q, want %q", cfg.Session.Path, "/data/feed/session.json")
	}
	if cfg.Store.DataDir != "/data/feed/store" {
		t.Errorf("Store.DataDir = %q, want %q", cfg.Store.DataDir, "/data/feed/store")
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.Media.Type != "none" {
		t.Errorf("Media.Type = %q, want %q", cfg.Media.Type, "none")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "feed.toml")
		cfg := NewConfig("http://localhost:8080", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "feed.toml")
		cfg := NewConfig("http://localhost:8080", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "feed.toml")
		cfg := NewConfig("http://read-test", dir)
		cfg.Store = StoreConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseURL != "http://read-test" {
			t.Errorf("BaseURL = %q, want %q", got.BaseURL, "http://read-test")
		}
		if got.Store.Type != "memory" {
			t.Errorf("Store.Type = %q, want %q", got.Store.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/feed.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
