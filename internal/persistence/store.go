package persistence

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is a byte-valued key-value namespace standing in for browser storage.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps values in process memory with an optional per-key TTL.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore returns an empty store; ttl <= 0 keeps keys forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

// Get returns the value at key; expired entries read as absent.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores value, restarting the TTL.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (m *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

// Len reports the number of stored keys, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

type scopedStore struct {
	inner  Store
	prefix string
}

// Scoped namespaces every key of inner under prefix.
func Scoped(inner Store, prefix string) Store {
	return &scopedStore{inner: inner, prefix: prefix}
}

func (s *scopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scopedStore) DeletePrefix(ctx context.Context, prefix string) error {
	return s.inner.DeletePrefix(ctx, s.prefix+prefix)
}
