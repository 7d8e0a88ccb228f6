package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"pethub-backend/internal/assets"
)

const pgUniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.Username),
		user.PasswordHash,
	)
	return mapUniqueViolation(err)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, username, password_hash, profile_image_asset_id, profile_image_filename, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, username, password_hash, profile_image_asset_id, profile_image_filename, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Update(ctx context.Context, user User) error {
	const query = `
UPDATE users
SET email = $1, username = $2, password_hash = $3, updated_at = now()
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query,
		user.Email,
		nullableString(user.Username),
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetRef(ctx context.Context, userID string) (assets.Ref, error) {
	const query = `
SELECT profile_image_asset_id, profile_image_filename
FROM users
WHERE id = $1
LIMIT 1`
	var assetID sql.NullString
	var fileName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&assetID, &fileName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assets.Ref{}, ErrNotFound
		}
		return assets.Ref{}, err
	}
	return toRef(assetID, fileName), nil
}

func (r *PGRepo) SetRef(ctx context.Context, userID, assetID, fileName string) error {
	const query = `
UPDATE users
SET profile_image_asset_id = $1, profile_image_filename = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, assetID, fileName, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ClearRef(ctx context.Context, userID string) error {
	const query = `
UPDATE users
SET profile_image_asset_id = NULL, profile_image_filename = NULL, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var username sql.NullString
	var assetID sql.NullString
	var fileName sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&username,
		&user.PasswordHash,
		&assetID,
		&fileName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if username.Valid {
		user.Username = username.String
	}
	user.ProfileImage = toRef(assetID, fileName)
	return user, nil
}

func toRef(assetID, fileName sql.NullString) assets.Ref {
	var ref assets.Ref
	if assetID.Valid {
		id := assetID.String
		ref.AssetID = &id
	}
	if fileName.Valid {
		name := fileName.String
		ref.FileName = &name
	}
	return ref
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
