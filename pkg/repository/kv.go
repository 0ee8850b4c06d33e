package repository

import "sync"

// KeyValueStore is the local persistence adapter: synchronous, key-value,
// no network. Write failures are the implementation's problem to log; the
// store layer treats local persistence as a best-effort cache.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

type memoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates a process-local KeyValueStore. Used in tests and as
// the degraded mode when the durable store cannot be opened.
func NewMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok
}

func (m *memoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
}

func (m *memoryKV) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
}
