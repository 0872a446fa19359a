package storage

import (
	"context"
	"sort"
	"sync"

	"curie/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	sweeps      map[string]model.Sweep
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.sweeps = make(map[string]model.Sweep)
	return nil
}

func (s *MemoryStore) SaveSweep(_ context.Context, sweep model.Sweep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweeps[sweep.ID] = sweep
	return nil
}

func (s *MemoryStore) GetSweep(_ context.Context, id string) (model.Sweep, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sweep, ok := s.sweeps[id]
	return sweep, ok, nil
}

func (s *MemoryStore) ListSweeps(_ context.Context) ([]model.Sweep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sweeps := make([]model.Sweep, 0, len(s.sweeps))
	for _, sweep := range s.sweeps {
		sweeps = append(sweeps, sweep)
	}
	sort.Slice(sweeps, func(i, j int) bool {
		if sweeps[i].CreatedAtUTC == sweeps[j].CreatedAtUTC {
			return sweeps[i].ID < sweeps[j].ID
		}
		return sweeps[i].CreatedAtUTC > sweeps[j].CreatedAtUTC
	})
	return sweeps, nil
}
