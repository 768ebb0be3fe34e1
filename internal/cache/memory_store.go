package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// MemoryStore is an in-process cache. Values are stored encoded so callers
// never share pointers with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ interfaces.ImageCacheAdmin = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (interfaces.ImageResolution, bool, error) {
	m.mu.RLock()
	payload, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return interfaces.ImageResolution{}, false, nil
	}
	value, err := decode(payload)
	if err != nil {
		return interfaces.ImageResolution{}, false, err
	}
	return value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value interfaces.ImageResolution) error {
	payload, err := encode(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = payload
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = map[string]string{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Keys(context.Context) ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
