package pets

import (
	"context"
	"database/sql"
	"errors"

	"pethub-backend/internal/assets"
)

const petColumns = `id, owner_id, name, age, breed, profile_image_asset_id, profile_image_filename, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, pet Pet) error {
	const query = `
INSERT INTO pets (id, owner_id, name, age, breed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		pet.ID,
		pet.OwnerID,
		pet.Name,
		pet.Age,
		pet.Breed,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, petID string) (Pet, error) {
	const query = `
SELECT ` + petColumns + `
FROM pets
WHERE id = $1
LIMIT 1`
	pet, err := scanPet(r.DB.QueryRowContext(ctx, query, petID))
	if err != nil {
		return Pet{}, err
	}
	if err := r.loadRecords(ctx, &pet); err != nil {
		return Pet{}, err
	}
	return pet, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	const query = `
SELECT ` + petColumns + `
FROM pets
WHERE owner_id = $1
ORDER BY created_at DESC`
	return r.queryPets(ctx, query, ownerID)
}

func (r *PGRepo) Update(ctx context.Context, pet Pet) error {
	const query = `
UPDATE pets
SET name = $1, age = $2, breed = $3, updated_at = now()
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, pet.Name, pet.Age, pet.Breed, pet.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, petID string) error {
	const query = `DELETE FROM pets WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, petID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Search(ctx context.Context, ownerID, name, breed string) ([]Pet, error) {
	const query = `
SELECT ` + petColumns + `
FROM pets
WHERE owner_id = $1
  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
  AND ($3 = '' OR breed ILIKE '%' || $3 || '%')
ORDER BY created_at DESC`
	return r.queryPets(ctx, query, ownerID, name, breed)
}

func (r *PGRepo) AddWeight(ctx context.Context, petID string, rec WeightRecord) error {
	const query = `
INSERT INTO pet_weight_records (id, pet_id, weight_kg, recorded_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, rec.ID, petID, rec.Weight, rec.Date)
	return err
}

func (r *PGRepo) DeleteWeight(ctx context.Context, petID, recordID string) error {
	const query = `DELETE FROM pet_weight_records WHERE id = $1 AND pet_id = $2`
	res, err := r.DB.ExecContext(ctx, query, recordID, petID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PGRepo) AddVaccination(ctx context.Context, petID string, rec VaccinationRecord) error {
	const query = `
INSERT INTO pet_vaccinations (id, pet_id, vaccine, administered_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, rec.ID, petID, rec.Vaccine, rec.Date)
	return err
}

func (r *PGRepo) DeleteVaccination(ctx context.Context, petID, recordID string) error {
	const query = `DELETE FROM pet_vaccinations WHERE id = $1 AND pet_id = $2`
	res, err := r.DB.ExecContext(ctx, query, recordID, petID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PGRepo) GetRef(ctx context.Context, petID string) (assets.Ref, error) {
	const query = `
SELECT profile_image_asset_id, profile_image_filename
FROM pets
WHERE id = $1
LIMIT 1`
	var assetID sql.NullString
	var fileName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, petID).Scan(&assetID, &fileName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assets.Ref{}, ErrNotFound
		}
		return assets.Ref{}, err
	}
	return toRef(assetID, fileName), nil
}

func (r *PGRepo) SetRef(ctx context.Context, petID, assetID, fileName string) error {
	const query = `
UPDATE pets
SET profile_image_asset_id = $1, profile_image_filename = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, assetID, fileName, petID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ClearRef(ctx context.Context, petID string) error {
	const query = `
UPDATE pets
SET profile_image_asset_id = NULL, profile_image_filename = NULL, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, petID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) queryPets(ctx context.Context, query string, args ...any) ([]Pet, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadRecords(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGRepo) loadRecords(ctx context.Context, pet *Pet) error {
	const weightQuery = `
SELECT id, weight_kg, recorded_at
FROM pet_weight_records
WHERE pet_id = $1
ORDER BY recorded_at ASC`
	rows, err := r.DB.QueryContext(ctx, weightQuery, pet.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rec WeightRecord
		if err := rows.Scan(&rec.ID, &rec.Weight, &rec.Date); err != nil {
			return err
		}
		pet.WeightTrend = append(pet.WeightTrend, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const vaccinationQuery = `
SELECT id, vaccine, administered_at
FROM pet_vaccinations
WHERE pet_id = $1
ORDER BY administered_at ASC`
	vrows, err := r.DB.QueryContext(ctx, vaccinationQuery, pet.ID)
	if err != nil {
		return err
	}
	defer vrows.Close()
	for vrows.Next() {
		var rec VaccinationRecord
		if err := vrows.Scan(&rec.ID, &rec.Vaccine, &rec.Date); err != nil {
			return err
		}
		pet.VaccinationHistory = append(pet.VaccinationHistory, rec)
	}
	return vrows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (Pet, error) {
	var pet Pet
	var assetID sql.NullString
	var fileName sql.NullString
	err := row.Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Age,
		&pet.Breed,
		&assetID,
		&fileName,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	pet.ProfileImage = toRef(assetID, fileName)
	return pet, nil
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

var _ Repo = (*PGRepo)(nil)
