package storage

import (
	"context"
	"sort"
	"sync"

	"dendrion/internal/model"
)

type MemoryStore struct {
	mu         sync.RWMutex
	summaries  map[string]model.RunSummary
	snapshots  map[string][]model.TickSnapshot
	topologies map[string]model.TopologyDump
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries = make(map[string]model.RunSummary)
	s.snapshots = make(map[string][]model.TickSnapshot)
	s.topologies = make(map[string]model.TopologyDump)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.RunID] = summary
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, runID string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[runID]
	return summary, ok, nil
}

func (s *MemoryStore) ListRunSummaries(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].RunID < out[j].RunID
	})
	return out, nil
}

func (s *MemoryStore) SaveTickSnapshot(_ context.Context, snapshot model.TickSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.RunID] = append(s.snapshots[snapshot.RunID], snapshot)
	return nil
}

func (s *MemoryStore) GetTickSnapshots(_ context.Context, runID string) ([]model.TickSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots, ok := s.snapshots[runID]
	if !ok {
		return nil, nil
	}
	copied := make([]model.TickSnapshot, len(snapshots))
	copy(copied, snapshots)
	return copied, nil
}

func (s *MemoryStore) SaveTopology(_ context.Context, topology model.TopologyDump) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topologies[topology.RunID] = topology
	return nil
}

func (s *MemoryStore) GetTopology(_ context.Context, runID string) (model.TopologyDump, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topology, ok := s.topologies[runID]
	return topology, ok, nil
}
