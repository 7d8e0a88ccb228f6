package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pethub-backend/internal/profileimages"
	"pethub-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

// ErrForbidden is returned when the caller does not own the pet.
var ErrForbidden = errors.New("not the pet owner")

type Service struct {
	Repo   Repo
	Images *profileimages.Service
}

func NewService(repo Repo, images *profileimages.Service) *Service {
	return &Service{Repo: repo, Images: images}
}

// Create registers a new pet under the caller.
func (s *Service) Create(ctx context.Context, ownerID, name string, age int, breed string) (Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" || age < 0 {
		return Pet{}, ErrInvalidInput
	}

	pet := Pet{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
		Age:     age,
		Breed:   strings.TrimSpace(breed),
	}
	if err := s.Repo.Create(ctx, pet); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, pet.ID)
}

// GetOwned returns the pet if it exists and belongs to the caller.
func (s *Service) GetOwned(ctx context.Context, callerID, petID string) (Pet, error) {
	pet, err := s.Repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if pet.OwnerID != callerID {
		return Pet{}, ErrForbidden
	}
	return pet, nil
}

// ListOwned returns every pet belonging to the caller.
func (s *Service) ListOwned(ctx context.Context, callerID string) ([]Pet, error) {
	return s.Repo.ListByOwner(ctx, callerID)
}

// PetPatch carries the optional pet fields of an update.
// Nil means "leave unchanged".
type PetPatch struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Breed *string `json:"breed"`
}

// Update applies the patch to the pet after an ownership check.
func (s *Service) Update(ctx context.Context, callerID, petID string, patch PetPatch) (Pet, error) {
	pet, err := s.GetOwned(ctx, callerID, petID)
	if err != nil {
		return Pet{}, err
	}

	updated, err := applyPatch(pet, patch)
	if err != nil {
		return Pet{}, err
	}
	if err := s.Repo.Update(ctx, updated); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, petID)
}

// Delete removes the pet and releases its profile image, if any.
// The image delete is best-effort: the pet row going away is what the
// caller asked for, a stale blob only costs storage.
func (s *Service) Delete(ctx context.Context, callerID, petID string) error {
	pet, err := s.GetOwned(ctx, callerID, petID)
	if err != nil {
		return err
	}

	if !pet.ProfileImage.IsZero() {
		if err := s.Images.Delete(ctx, petID); err != nil && !errors.Is(err, profileimages.ErrNoImage) {
			telemetry.Error("pet.image.cleanup.failed", map[string]any{
				"pet_id": petID,
				"err":    err.Error(),
			})
		}
	}
	return s.Repo.Delete(ctx, petID)
}

// Search returns the caller's pets matching the optional name and
// breed filters. Empty filters match everything the caller owns.
func (s *Service) Search(ctx context.Context, callerID, name, breed string) ([]Pet, error) {
	return s.Repo.Search(ctx, callerID, strings.TrimSpace(name), strings.TrimSpace(breed))
}

// AddWeight appends a weight record and returns the refreshed pet.
func (s *Service) AddWeight(ctx context.Context, callerID, petID string, weight float64, date time.Time) (Pet, error) {
	if weight <= 0 {
		return Pet{}, ErrInvalidInput
	}
	if _, err := s.GetOwned(ctx, callerID, petID); err != nil {
		return Pet{}, err
	}

	rec := WeightRecord{ID: uuid.NewString(), Weight: weight, Date: normalizeDate(date)}
	if err := s.Repo.AddWeight(ctx, petID, rec); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, petID)
}

// DeleteWeight removes one weight record and returns the refreshed pet.
func (s *Service) DeleteWeight(ctx context.Context, callerID, petID, recordID string) (Pet, error) {
	if _, err := s.GetOwned(ctx, callerID, petID); err != nil {
		return Pet{}, err
	}
	if err := s.Repo.DeleteWeight(ctx, petID, recordID); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, petID)
}

// AddVaccination appends a vaccination record and returns the
// refreshed pet.
func (s *Service) AddVaccination(ctx context.Context, callerID, petID, vaccine string, date time.Time) (Pet, error) {
	vaccine = strings.TrimSpace(vaccine)
	if vaccine == "" {
		return Pet{}, ErrInvalidInput
	}
	if _, err := s.GetOwned(ctx, callerID, petID); err != nil {
		return Pet{}, err
	}

	rec := VaccinationRecord{ID: uuid.NewString(), Vaccine: vaccine, Date: normalizeDate(date)}
	if err := s.Repo.AddVaccination(ctx, petID, rec); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, petID)
}

// DeleteVaccination removes one vaccination record and returns the
// refreshed pet.
func (s *Service) DeleteVaccination(ctx context.Context, callerID, petID, recordID string) (Pet, error) {
	if _, err := s.GetOwned(ctx, callerID, petID); err != nil {
		return Pet{}, err
	}
	if err := s.Repo.DeleteVaccination(ctx, petID, recordID); err != nil {
		return Pet{}, err
	}
	return s.Repo.GetByID(ctx, petID)
}

func applyPatch(pet Pet, patch PetPatch) (Pet, error) {
	out := pet
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		out.Name = name
	}
	if patch.Age != nil {
		if *patch.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		out.Age = *patch.Age
	}
	if patch.Breed != nil {
		out.Breed = strings.TrimSpace(*patch.Breed)
	}
	return out, nil
}

func normalizeDate(date time.Time) time.Time {
	if date.IsZero() {
		return time.Now().UTC()
	}
	return date.UTC()
}
