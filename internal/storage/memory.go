package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory ObjectStore, used in tests and local demos.
// It is safe for concurrent use.
type MemoryStore struct {
	baseURL string
	objects map[string]memoryObject
	mu      sync.RWMutex

	// FailUpload and FailDelete make the matching calls fail when set.
	FailUpload error
	FailDelete error
}

// NewMemoryStore creates an empty store whose URLs are rooted at baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

// Upload stores the content of r under objectPath.
func (m *MemoryStore) Upload(_ context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	if m.FailUpload != nil {
		return m.FailUpload
	}
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[p] = memoryObject{data: data, contentType: contentType}
	return nil
}

// URL returns baseURL/objectPath for an existing object.
func (m *MemoryStore) URL(_ context.Context, objectPath string) (string, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[p]; !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return m.baseURL + "/" + p, nil
}

// Delete removes the object at objectPath.
func (m *MemoryStore) Delete(_ context.Context, objectPath string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, p)
	return nil
}

// Exists reports whether an object is stored at objectPath.
func (m *MemoryStore) Exists(_ context.Context, objectPath string) (bool, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[p]
	return ok, nil
}

// Paths lists the stored object paths.
func (m *MemoryStore) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.objects))
	for p := range m.objects {
		out = append(out, p)
	}
	return out
}

// Compile-time check that MemoryStore implements ObjectStore.
var _ ObjectStore = (*MemoryStore)(nil)
