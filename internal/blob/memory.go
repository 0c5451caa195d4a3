package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryBaseURL prefixes every URL handed out by a MemoryStore.
const MemoryBaseURL = "memory://blobs"

type memoryObject struct {
	contentType string
	data        []byte
}

// MemoryStore is an in-memory implementation of Store, useful for development
// and tests. It is safe for concurrent use.
type MemoryStore struct {
	resolver PrefixResolver
	prefix   string
	objects  map[string]memoryObject
	mu       sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{
		resolver: PrefixResolver{BaseURL: MemoryBaseURL},
		prefix:   prefix,
		objects:  make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Put(_ context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	key := objectKey(m.prefix, folder, filename)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{contentType: contentType, data: data}

	return m.resolver.URL(key), nil
}

func (m *MemoryStore) Delete(_ context.Context, url string) error {
	key, err := m.resolver.Key(url)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("blob not found: %s", key)
	}
	delete(m.objects, key)
	return nil
}

// Get returns the stored bytes and content type for url.
func (m *MemoryStore) Get(url string) ([]byte, string, bool) {
	key, err := m.resolver.Key(url)
	if err != nil {
		return nil, "", false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(obj.data), obj.contentType, true
}

// Len reports how many blobs are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
