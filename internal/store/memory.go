// internal/store/memory.go
//
// In-memory cache of generator results.
// A full table build for a wide pattern costs tens of milliseconds, and the
// same pattern is often requested again with a larger limit or by polling
// clients, so results are kept keyed by (normalised pattern, limit).
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Bounded: once full, an arbitrary entry is evicted per insert.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrNotFound is returned by Get for keys that are not cached.
var ErrNotFound = errors.New("not found")

// Result is one generate response.
type Result struct {
	Passwords []string `json:"passwords"`
	Total     uint64   `json:"total"`
}

// Key identifies a generate request. Pattern must already be normalised.
func Key(pattern string, limit int) string {
	return pattern + "|" + strconv.Itoa(limit)
}

// Store defines the cache interface for generate results.
type Store interface {
	// Save stores or replaces the result for key.
	Save(ctx context.Context, key string, r Result) error

	// Get retrieves a cached result, or ErrNotFound.
	Get(ctx context.Context, key string) (Result, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards results
	results  map[string]Result // keyed by Key(pattern, limit)
	capacity int
}

// NewMemoryStore constructs a Store holding at most capacity results (default 256).
func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		capacity = 256
	}
	return &memory{results: make(map[string]Result), capacity: capacity}
}

func (m *memory) Save(ctx context.Context, key string, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.results[key]; !ok && len(m.results) >= m.capacity {
		for k := range m.results {
			delete(m.results, k)
			break
		}
	}
	// callers may keep appending to their slice
	r.Passwords = append([]string(nil), r.Passwords...)
	m.results[key] = r
	return nil
}

func (m *memory) Get(ctx context.Context, key string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.results[key]; ok {
		return r, nil
	}
	return Result{}, ErrNotFound
}
