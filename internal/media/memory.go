package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"feed-go/internal/feed"
)

// MemoryStore keeps uploaded media in memory. Safe for concurrent use.
type MemoryStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

var _ feed.MediaStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore whose URLs are rooted at baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if size > 0 && int64(len(data)) != size {
		return "", fmt.Errorf("upload size mismatch: read %d bytes, expected %d", len(data), size)
	}

	name = strings.TrimLeft(name, "/")
	m.mu.Lock()
	m.objects[name] = memoryObject{contentType: contentType, data: data}
	m.mu.Unlock()

	return m.baseURL + "/" + name, nil
}

// Get returns a stored object's content and content type.
func (m *MemoryStore) Get(name string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[name]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
