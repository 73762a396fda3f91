package session

import (
	"fmt"

	"feed-go/internal/config"
	"feed-go/internal/feed"
)

// NewSlotFromConfig creates a SessionSlot based on the session config type.
func NewSlotFromConfig(cfg config.SessionConfig) (feed.SessionSlot, error) {
	switch cfg.Type {
	case "file", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file session requires path to be set")
		}
		return NewFileSlot(cfg.Path), nil
	case "age":
		if cfg.Path == "" || cfg.KeyPath == "" {
			return nil, fmt.Errorf("age session requires path and key_path to be set")
		}
		return NewAgeSlot(cfg.Path, cfg.KeyPath), nil
	case "memory":
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown session type: %s", cfg.Type)
	}
}
