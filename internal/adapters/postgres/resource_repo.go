package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// ResourceRepo implements ports.ResourceRepository with pgx.
type ResourceRepo struct {
	db *DB
}

func NewResourceRepo(db *DB) *ResourceRepo {
	return &ResourceRepo{db: db}
}

const resourceColumns = "id, recon_id, number, filename, " + poseColumns + ", created_at"

func scanResource(row pgx.Row) (domain.Resource, error) {
	var res domain.Resource
	dest := append([]any{&res.ID, &res.ReconID, &res.Number, &res.Filename}, poseDest(&res.Parameters)...)
	dest = append(dest, &res.CreatedAt)
	err := row.Scan(dest...)
	return res, err
}

func (r *ResourceRepo) List(ctx context.Context, reconID *int64) ([]domain.Resource, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE $1::bigint IS NULL OR recon_id = $1
		ORDER BY recon_id, number
	`, reconID)
	if err != nil {
		return nil, mapErr(err, "list resources")
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *ResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := scanResource(r.db.Pool.QueryRow(ctx, `
		SELECT `+resourceColumns+` FROM resources WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("resource %d", id))
	}
	return &res, nil
}

func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	args := append([]any{res.ReconID, res.Number, res.Filename}, poseArgs(res.Parameters)...)
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO resources (recon_id, number, filename, `+poseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, args...).Scan(&res.ID, &res.CreatedAt)
	return mapErr(err, fmt.Sprintf("resource %d", res.Number))
}

func (r *ResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	args := append([]any{res.ID, res.Number}, poseArgs(res.Parameters)...)
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE resources SET number = $2, rotation = $3, lat = $4, lon = $5, alt = $6,
		       gimbal_yaw = $7, gimbal_pitch = $8, gimbal_roll = $9
		WHERE id = $1
	`, args...)
	if err != nil {
		return mapErr(err, fmt.Sprintf("resource %d", res.Number))
	}
	return affected(tag, fmt.Sprintf("resource %d", res.ID))
}

func (r *ResourceRepo) SetFilename(ctx context.Context, id int64, filename *string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE resources SET filename = $2 WHERE id = $1`, id, filename)
	if err != nil {
		return mapErr(err, fmt.Sprintf("resource %d", id))
	}
	return affected(tag, fmt.Sprintf("resource %d", id))
}

func (r *ResourceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, fmt.Sprintf("resource %d", id))
	}
	return affected(tag, fmt.Sprintf("resource %d", id))
}
