package media

import (
	"context"
	"strings"
	"testing"

	"feed-go/internal/config"
)

func TestMemoryStore_Upload(t *testing.T) {
	m := NewMemoryStore("https://cdn.example.com/")

	url, err := m.Upload(context.Background(), "posts/u1/1.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "https://cdn.example.com/posts/u1/1.png" {
		t.Errorf("url = %q", url)
	}

	data, contentType, ok := m.Get("posts/u1/1.png")
	if !ok {
		t.Fatal("Get() found nothing")
	}
	if string(data) != "png-bytes" {
		t.Errorf("data = %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q", contentType)
	}
}

func TestMemoryStore_SizeMismatch(t *testing.T) {
	m := NewMemoryStore(MemoryBaseURL)

	if _, err := m.Upload(context.Background(), "a.png", "image/png", strings.NewReader("abc"), 10); err == nil {
		t.Fatal("Upload() expected size mismatch error")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	m := NewMemoryStore(MemoryBaseURL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Upload(ctx, "a.png", "image/png", strings.NewReader("abc"), 3); err == nil {
		t.Fatal("Upload() expected error for cancelled context")
	}
}

func TestS3Store_KeysAndURLs(t *testing.T) {
	tests := []struct {
		name  string
		store S3Store
		input string
		want  string
	}{
		{
			name:  "aws with prefix",
			store: S3Store{bucket: "feed-media", prefix: "uploads", region: "eu-west-1"},
			input: "posts/u1/1.png",
			want:  "https://feed-media.s3.eu-west-1.amazonaws.com/uploads/posts/u1/1.png",
		},
		{
			name:  "aws without prefix",
			store: S3Store{bucket: "feed-media", region: "us-east-1"},
			input: "/posts/u1/1.png",
			want:  "https://feed-media.s3.us-east-1.amazonaws.com/posts/u1/1.png",
		},
		{
			name:  "custom endpoint",
			store: S3Store{bucket: "media", endpoint: "http://localhost:9000"},
			input: "posts/u1/2.mp4",
			want:  "http://localhost:9000/media/posts/u1/2.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.store.publicURL(tt.store.key(tt.input))
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewMediaFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("none disables uploads", func(t *testing.T) {
		got, err := NewMediaFromConfig(ctx, config.MediaConfig{Type: "none"})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if got != nil {
			t.Errorf("got %T, want nil", got)
		}
	})

	t.Run("memory", func(t *testing.T) {
		got, err := NewMediaFromConfig(ctx, config.MediaConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if _, ok := got.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", got)
		}
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		if _, err := NewMediaFromConfig(ctx, config.MediaConfig{Type: "s3"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewMediaFromConfig(ctx, config.MediaConfig{Type: "ftp"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
