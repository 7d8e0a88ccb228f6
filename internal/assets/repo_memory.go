package assets

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo used when no database is configured.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Asset
	byName map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Asset),
		byName: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, asset Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[asset.ID] = asset
	r.byName[asset.FileName] = asset.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.byID[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return asset, nil
}

func (r *MemoryRepo) GetByName(ctx context.Context, fileName string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[fileName]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.byID[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byName, asset.FileName)
	return asset, nil
}

var _ Repo = (*MemoryRepo)(nil)
