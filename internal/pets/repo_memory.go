package pets

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pethub-backend/internal/assets"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	pets map[string]Pet
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{pets: make(map[string]Pet)}
}

func (r *MemoryRepo) Create(_ context.Context, pet Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	pet.CreatedAt = now
	pet.UpdatedAt = now
	r.pets[pet.ID] = pet
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, petID string) (Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pet, ok := r.pets[petID]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return clonePet(pet), nil
}

func (r *MemoryRepo) ListByOwner(_ context.Context, ownerID string) ([]Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Pet
	for _, pet := range r.pets {
		if pet.OwnerID == ownerID {
			out = append(out, clonePet(pet))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, pet Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pets[pet.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = pet.Name
	existing.Age = pet.Age
	existing.Breed = pet.Breed
	existing.UpdatedAt = time.Now().UTC()
	r.pets[pet.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[petID]; !ok {
		return ErrNotFound
	}
	delete(r.pets, petID)
	return nil
}

func (r *MemoryRepo) Search(_ context.Context, ownerID, name, breed string) ([]Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Pet
	for _, pet := range r.pets {
		if pet.OwnerID != ownerID {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(pet.Name), strings.ToLower(name)) {
			continue
		}
		if breed != "" && !strings.Contains(strings.ToLower(pet.Breed), strings.ToLower(breed)) {
			continue
		}
		out = append(out, clonePet(pet))
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) AddWeight(_ context.Context, petID string, rec WeightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	pet.WeightTrend = append(pet.WeightTrend, rec)
	sort.Slice(pet.WeightTrend, func(i, j int) bool {
		return pet.WeightTrend[i].Date.Before(pet.WeightTrend[j].Date)
	})
	pet.UpdatedAt = time.Now().UTC()
	r.pets[petID] = pet
	return nil
}

func (r *MemoryRepo) DeleteWeight(_ context.Context, petID, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	for i, rec := range pet.WeightTrend {
		if rec.ID == recordID {
			pet.WeightTrend = append(pet.WeightTrend[:i], pet.WeightTrend[i+1:]...)
			pet.UpdatedAt = time.Now().UTC()
			r.pets[petID] = pet
			return nil
		}
	}
	return ErrRecordNotFound
}

func (r *MemoryRepo) AddVaccination(_ context.Context, petID string, rec VaccinationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	pet.VaccinationHistory = append(pet.VaccinationHistory, rec)
	sort.Slice(pet.VaccinationHistory, func(i, j int) bool {
		return pet.VaccinationHistory[i].Date.Before(pet.VaccinationHistory[j].Date)
	})
	pet.UpdatedAt = time.Now().UTC()
	r.pets[petID] = pet
	return nil
}

func (r *MemoryRepo) DeleteVaccination(_ context.Context, petID, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	for i, rec := range pet.VaccinationHistory {
		if rec.ID == recordID {
			pet.VaccinationHistory = append(pet.VaccinationHistory[:i], pet.VaccinationHistory[i+1:]...)
			pet.UpdatedAt = time.Now().UTC()
			r.pets[petID] = pet
			return nil
		}
	}
	return ErrRecordNotFound
}

func (r *MemoryRepo) GetRef(_ context.Context, petID string) (assets.Ref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pet, ok := r.pets[petID]
	if !ok {
		return assets.Ref{}, ErrNotFound
	}
	return pet.ProfileImage, nil
}

func (r *MemoryRepo) SetRef(_ context.Context, petID, assetID, fileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	pet.ProfileImage = assets.Ref{AssetID: &assetID, FileName: &fileName}
	pet.UpdatedAt = time.Now().UTC()
	r.pets[petID] = pet
	return nil
}

func (r *MemoryRepo) ClearRef(_ context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[petID]
	if !ok {
		return ErrNotFound
	}
	pet.ProfileImage = assets.Ref{}
	pet.UpdatedAt = time.Now().UTC()
	r.pets[petID] = pet
	return nil
}

func clonePet(pet Pet) Pet {
	out := pet
	out.WeightTrend = append([]WeightRecord(nil), pet.WeightTrend...)
	out.VaccinationHistory = append([]VaccinationRecord(nil), pet.VaccinationHistory...)
	return out
}

func sortNewestFirst(pets []Pet) {
	sort.Slice(pets, func(i, j int) bool {
		return pets[i].CreatedAt.After(pets[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
