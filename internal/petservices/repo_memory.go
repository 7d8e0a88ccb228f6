package petservices

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	services map[string]PetService
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{services: make(map[string]PetService)}
}

func (r *MemoryRepo) Create(_ context.Context, svc PetService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc.CreatedAt = time.Now().UTC()
	r.services[svc.ID] = svc
	return nil
}

func (r *MemoryRepo) List(_ context.Context) ([]PetService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PetService, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
