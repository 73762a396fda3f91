package media

import (
	"context"
	"fmt"

	"feed-go/internal/config"
	"feed-go/internal/feed"
)

// MemoryBaseURL roots the URLs handed out by the memory media store.
const MemoryBaseURL = "https://media.invalid"

// NewMediaFromConfig creates a MediaStore based on the media config type.
// It returns nil, nil when uploads are disabled.
func NewMediaFromConfig(ctx context.Context, cfg config.MediaConfig) (feed.MediaStore, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "memory":
		return NewMemoryStore(MemoryBaseURL), nil
	case "s3":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown media type: %s", cfg.Type)
	}
}
