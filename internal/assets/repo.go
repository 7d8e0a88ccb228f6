package assets

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errNotFound{}

	// ErrTooLarge is returned by Store.Put when the payload stream
	// exceeds the configured maximum.
	ErrTooLarge = errors.New("asset payload too large")
)

type errNotFound struct{}

func (errNotFound) Error() string { return "asset not found" }

// Repo stores asset metadata. The row is the commit point for an
// upload: an asset exists if and only if its row does.
type Repo interface {
	Create(ctx context.Context, asset Asset) error
	GetByID(ctx context.Context, id string) (Asset, error)
	GetByName(ctx context.Context, fileName string) (Asset, error)
	// Delete removes the row and returns it so the caller can release
	// the payload. Fails with ErrNotFound if no row has that id.
	Delete(ctx context.Context, id string) (Asset, error)
}
