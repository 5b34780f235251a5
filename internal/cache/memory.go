package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	fetchedAt time.Time
	ttl       time.Duration
}

// Memory is the default in-process Store. Expiry is checked at read time;
// there is no background sweep, so the key set can only grow. With a keyspace
// bounded by tickers and day counts that is an accepted limitation.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is replaceable in tests so expiry can be exercised without sleeping.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(e.fetchedAt) >= e.ttl {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{data: value, fetchedAt: m.now(), ttl: ttl}
	return nil
}
