package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/pkg/metrics"
)

const defaultCapacity = 50_000

// MemoryStore keeps reports in memory, evicting the oldest when full.
type MemoryStore struct {
	mu       sync.RWMutex
	reports  map[string]inspect.Report
	order    []string // insertion order; may hold ids already replaced
	capacity int
}

// NewMemoryStore creates a report store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		reports:  make(map[string]inspect.Report),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id string, rep inspect.Report) error {
	if id == "" {
		return fmt.Errorf("repository.save: %w", ErrInvalidID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[id]; !exists {
		if s.capacity > 0 && len(s.reports) >= s.capacity {
			s.evictOldest()
		}
		s.order = append(s.order, id)
	}
	s.reports[id] = rep
	metrics.UpdateReportsStored(len(s.reports))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (inspect.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reports[id]
	if !ok {
		return inspect.Report{}, fmt.Errorf("repository.get %q: %w", id, ErrNotFound)
	}
	return rep, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// evictOldest must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	for len(s.order) > 0 {
		id := s.order[0]
		s.order = s.order[1:]
		if _, ok := s.reports[id]; ok {
			delete(s.reports, id)
			return
		}
	}
}
