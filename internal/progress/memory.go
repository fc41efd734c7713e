package progress

import (
	"context"
	"sync"
)

// MemoryStore keeps the record in memory. Stored values are deep-copied so
// callers cannot mutate the record behind the store's back.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStore returns an empty MemoryStore, optionally seeded.
func NewMemoryStore(seed *State) *MemoryStore {
	m := &MemoryStore{}
	if seed != nil {
		m.state = clone(seed)
	}
	return m
}

func (m *MemoryStore) Save(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = clone(&s)
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	return clone(m.state), nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

func clone(s *State) *State {
	return &State{LearningType: s.LearningType, LearningPlan: s.LearningPlan.Clone()}
}
