package process

import (
	"context"
	"sync"
)

// MemoryStateRepo is an in-memory StateRepo.
type MemoryStateRepo struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryStateRepo creates an empty in-memory repo.
func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{states: make(map[string][]byte)}
}

func (r *MemoryStateRepo) SaveState(_ context.Context, step string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[step] = append([]byte(nil), data...)
	return nil
}

func (r *MemoryStateRepo) LoadState(_ context.Context, step string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.states[step]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (r *MemoryStateRepo) ClearStates(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.states)
	return nil
}

// Len returns the number of steps holding a snapshot.
func (r *MemoryStateRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
