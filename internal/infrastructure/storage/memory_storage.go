package storage

import (
	"context"
	"fmt"
	"sync"
)

// Ensure MemoryStorage implements FileStorage
var _ FileStorage = (*MemoryStorage)(nil)

// MemoryStorage is an in-process FileStorage for tests and local
// development without an object store.
type MemoryStorage struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	baseURL string
}

// NewMemoryStorage creates an empty MemoryStorage serving URLs under
// baseURL.
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &MemoryStorage{
		blobs:   make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (m *MemoryStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.blobs[key] = buf
	return m.URL(key), nil
}

func (m *MemoryStorage) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no object stored under %q", key)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryStorage) URL(key string) string {
	return m.baseURL + "/" + key
}

// Len returns the number of stored blobs.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
