package postgres

import (
	"context"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// AppInfoRepo implements ports.AppInfoRepository on a single-row table.
type AppInfoRepo struct {
	db *DB
}

func NewAppInfoRepo(db *DB) *AppInfoRepo {
	return &AppInfoRepo{db: db}
}

func (r *AppInfoRepo) Get(ctx context.Context) (*domain.AppInformations, error) {
	var info domain.AppInformations
	err := r.db.Pool.QueryRow(ctx, `SELECT updated_on FROM app_informations WHERE id = 1`).Scan(&info.UpdatedOn)
	if err != nil {
		return nil, mapErr(err, "app informations")
	}
	return &info, nil
}

func (r *AppInfoRepo) Touch(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO app_informations (id, updated_on) VALUES (1, now())
		ON CONFLICT (id) DO UPDATE SET updated_on = now()
	`)
	return mapErr(err, "app informations")
}
