package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"pethub-backend/internal/shared/storage/blob"
	"pethub-backend/internal/shared/telemetry"
	"pethub-backend/internal/shared/util"
)

// Store is the asset store: metadata rows in Repo, payload bytes in
// Blobs. The metadata row is written last, so readers never observe a
// half-committed asset.
type Store struct {
	Repo  Repo
	Blobs blob.Store

	// MaxBytes caps the payload size regardless of the declared
	// Content-Length. Zero disables the cap.
	MaxBytes int64
}

// NewStore constructs a Store.
func NewStore(repo Repo, blobs blob.Store, maxBytes int64) *Store {
	return &Store{Repo: repo, Blobs: blobs, MaxBytes: maxBytes}
}

// Put allocates a fresh id and streams the payload into storage.
// The asset is either fully committed and thereafter retrievable, or
// not created at all. Ids are never reused across uploads.
func (s *Store) Put(ctx context.Context, originalName, contentType string, r io.Reader) (Asset, error) {
	sanitized, err := util.SanitizeFileName(originalName)
	if err != nil {
		return Asset{}, fmt.Errorf("sanitize file name: %w", err)
	}

	id := uuid.NewString()
	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitized)
	storageKey := path.Join(id[:2], id)

	body := r
	if s.MaxBytes > 0 {
		body = &limitGuard{r: r, remaining: s.MaxBytes + 1}
	}

	size, err := s.Blobs.Save(ctx, storageKey, body)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return Asset{}, ErrTooLarge
		}
		return Asset{}, fmt.Errorf("store write: %w", err)
	}

	asset := Asset{
		ID:          id,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StorageKey:  storageKey,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, asset); err != nil {
		// The payload is orphaned without its row; release it so the
		// failed upload leaves nothing behind.
		if derr := s.Blobs.Delete(ctx, storageKey); derr != nil {
			telemetry.Error("asset.cleanup.failed", map[string]any{
				"asset_id":    id,
				"storage_key": storageKey,
				"err":         derr.Error(),
			})
		}
		return Asset{}, fmt.Errorf("commit asset: %w", err)
	}

	return asset, nil
}

// Open opens the asset with the given public file name for reading.
func (s *Store) Open(ctx context.Context, fileName string) (Asset, io.ReadCloser, error) {
	asset, err := s.Repo.GetByName(ctx, fileName)
	if err != nil {
		return Asset{}, nil, err
	}
	return s.openPayload(ctx, asset)
}

// OpenByID opens the asset with the given id for reading.
func (s *Store) OpenByID(ctx context.Context, id string) (Asset, io.ReadCloser, error) {
	asset, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Asset{}, nil, err
	}
	return s.openPayload(ctx, asset)
}

func (s *Store) openPayload(ctx context.Context, asset Asset) (Asset, io.ReadCloser, error) {
	rc, err := s.Blobs.Open(ctx, asset.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return Asset{}, nil, ErrNotFound
		}
		return Asset{}, nil, fmt.Errorf("store read: %w", err)
	}
	return asset, rc, nil
}

// Delete removes the asset. Deleting an id that does not exist is
// tolerated: asset deletion is frequently best-effort cleanup.
func (s *Store) Delete(ctx context.Context, id string) error {
	asset, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	// The row is gone, so the asset is already unretrievable; a
	// leftover payload is waste, not an inconsistency.
	if err := s.Blobs.Delete(ctx, asset.StorageKey); err != nil {
		telemetry.Error("asset.payload.delete.failed", map[string]any{
			"asset_id":    id,
			"storage_key": asset.StorageKey,
			"err":         err.Error(),
		})
	}
	return nil
}

// limitGuard fails the read with ErrTooLarge once more than
// remaining-1 bytes have been consumed.
type limitGuard struct {
	r         io.Reader
	remaining int64
}

func (g *limitGuard) Read(p []byte) (int, error) {
	if g.remaining <= 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > g.remaining {
		p = p[:g.remaining]
	}
	n, err := g.r.Read(p)
	g.remaining -= int64(n)
	if g.remaining <= 0 {
		// Consuming the full allowance means the payload is over the
		// cap, even when the reader hands back io.EOF in the same call.
		err = ErrTooLarge
	}
	return n, err
}
