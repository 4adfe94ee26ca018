package store

import (
	"context"
	"sync"
)

// MemoryStore keeps records in memory only. It backs tests and deployments
// that do not need durability.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(ctx context.Context, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records = replaceOrAppend(s.records, prepare(r))
	}
	return len(records), nil
}

// Search implements Store.
func (s *MemoryStore) Search(ctx context.Context, namespace string, query []float32, topK int, filter map[string]string) ([]Result, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]Record, 0)
	for _, r := range s.records {
		if r.Namespace != namespace || !matchesFilter(r.Metadata, filter) {
			continue
		}
		candidates = append(candidates, r)
	}
	return rankTopK(candidates, query, topK), nil
}

// Size returns the number of records across all namespaces.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error { return nil }
