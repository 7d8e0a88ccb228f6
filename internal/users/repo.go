package users

import (
	"context"
	"errors"

	"pethub-backend/internal/assets"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

// ErrEmailTaken is returned when an email is already registered.
var ErrEmailTaken = errors.New("email already in use")

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) error

	// Profile image reference, swapped with a single atomic write.
	GetRef(ctx context.Context, userID string) (assets.Ref, error)
	SetRef(ctx context.Context, userID, assetID, fileName string) error
	ClearRef(ctx context.Context, userID string) error
}
