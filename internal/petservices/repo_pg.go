package petservices

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, svc PetService) error {
	const query = `
INSERT INTO pet_services (id, name, lat, lng, address, rating, contact, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.DB.ExecContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Lat,
		svc.Lng,
		svc.Address,
		svc.Rating,
		svc.Contact,
	)
	return err
}

func (r *PGRepo) List(ctx context.Context) ([]PetService, error) {
	const query = `
SELECT id, name, lat, lng, address, rating, contact, created_at
FROM pet_services
ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PetService
	for rows.Next() {
		var svc PetService
		err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Lat,
			&svc.Lng,
			&svc.Address,
			&svc.Rating,
			&svc.Contact,
			&svc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
