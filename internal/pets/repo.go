package pets

import (
	"context"

	"pethub-backend/internal/assets"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "pet not found" }

// ErrRecordNotFound covers weight and vaccination records.
var ErrRecordNotFound = errRecordNotFound{}

type errRecordNotFound struct{}

func (errRecordNotFound) Error() string { return "record not found" }

type Repo interface {
	Create(ctx context.Context, pet Pet) error
	GetByID(ctx context.Context, petID string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, pet Pet) error
	Delete(ctx context.Context, petID string) error
	Search(ctx context.Context, ownerID, name, breed string) ([]Pet, error)

	AddWeight(ctx context.Context, petID string, rec WeightRecord) error
	DeleteWeight(ctx context.Context, petID, recordID string) error
	AddVaccination(ctx context.Context, petID string, rec VaccinationRecord) error
	DeleteVaccination(ctx context.Context, petID, recordID string) error

	// Profile image reference, swapped with a single atomic write.
	GetRef(ctx context.Context, petID string) (assets.Ref, error)
	SetRef(ctx context.Context, petID, assetID, fileName string) error
	ClearRef(ctx context.Context, petID string) error
}
