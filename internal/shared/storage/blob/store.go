package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no payload exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store defines the contract for saving and retrieving binary payloads.
// Save must be all-or-nothing: a key is readable only after Save has
// returned successfully, never while a write is in flight.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
