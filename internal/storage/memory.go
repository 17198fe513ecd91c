package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"neuroevo/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	populations map[string]model.PopulationSnapshot
	history     map[string][]float64
	stats       map[string][]model.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.reset()
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return nil
}

func (s *MemoryStore) reset() {
	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.populations = make(map[string]model.PopulationSnapshot)
	s.history = make(map[string][]float64)
	s.stats = make(map[string][]model.GenerationStats)
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	run.Topology = append([]int(nil), run.Topology...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.RunRecord{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	run.Topology = append([]int(nil), run.Topology...)
	return run, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SavePopulation(_ context.Context, population model.PopulationSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.populations[population.ID] = clonePopulation(population)
	return nil
}

func (s *MemoryStore) GetPopulation(_ context.Context, id string) (model.PopulationSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.PopulationSnapshot{}, false, errNotInitialized
	}
	population, ok := s.populations[id]
	if !ok {
		return model.PopulationSnapshot{}, false, nil
	}
	return clonePopulation(population), true, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveGenerationStats(_ context.Context, runID string, stats []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.stats[runID] = append([]model.GenerationStats(nil), stats...)
	return nil
}

func (s *MemoryStore) GetGenerationStats(_ context.Context, runID string) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	stats, ok := s.stats[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationStats(nil), stats...), true, nil
}

func clonePopulation(p model.PopulationSnapshot) model.PopulationSnapshot {
	p.Topology = append([]int(nil), p.Topology...)
	members := make([]model.Member, len(p.Members))
	for i, m := range p.Members {
		m.Chromosome = append([]float64(nil), m.Chromosome...)
		members[i] = m
	}
	p.Members = members
	return p
}
