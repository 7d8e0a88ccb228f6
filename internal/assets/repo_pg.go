package assets

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new asset row.
func (r *PGRepo) Create(ctx context.Context, asset Asset) error {
	const query = `
INSERT INTO assets (id, file_name, content_type, size_bytes, storage_key, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		asset.ID,
		asset.FileName,
		asset.ContentType,
		asset.SizeBytes,
		asset.StorageKey,
		asset.UploadedAt,
	)
	return err
}

// GetByID fetches an asset by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Asset, error) {
	const query = `
SELECT id, file_name, content_type, size_bytes, storage_key, uploaded_at
FROM assets
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetByName fetches an asset by its public file name.
func (r *PGRepo) GetByName(ctx context.Context, fileName string) (Asset, error) {
	const query = `
SELECT id, file_name, content_type, size_bytes, storage_key, uploaded_at
FROM assets
WHERE file_name = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, fileName))
}

// Delete removes the row and returns the deleted asset.
func (r *PGRepo) Delete(ctx context.Context, id string) (Asset, error) {
	const query = `
DELETE FROM assets
WHERE id = $1
RETURNING id, file_name, content_type, size_bytes, storage_key, uploaded_at`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) scanOne(row *sql.Row) (Asset, error) {
	var asset Asset
	err := row.Scan(
		&asset.ID,
		&asset.FileName,
		&asset.ContentType,
		&asset.SizeBytes,
		&asset.StorageKey,
		&asset.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	return asset, nil
}

var _ Repo = (*PGRepo)(nil)
