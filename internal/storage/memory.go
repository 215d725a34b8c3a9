package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps documents in process memory. It backs tests and dry runs.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (m *MemoryBackend) ReadDocument(_ context.Context, sheet string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[sheet]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (m *MemoryBackend) WriteDocument(_ context.Context, sheet string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := make([]byte, len(data))
	copy(doc, data)
	m.docs[sheet] = doc
	return nil
}

// NewMemoryStore returns a typed store over a fresh in-memory backend
func NewMemoryStore() *DocumentStore {
	return NewDocumentStore(NewMemoryBackend())
}
