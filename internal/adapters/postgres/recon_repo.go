package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// ReconRepo implements ports.ReconRepository with pgx.
type ReconRepo struct {
	db *DB
}

func NewReconRepo(db *DB) *ReconRepo {
	return &ReconRepo{db: db}
}

func (r *ReconRepo) List(ctx context.Context, flightPlanID *int64) ([]domain.Recon, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, flightplan_id, created_at
		FROM recons
		WHERE $1::bigint IS NULL OR flightplan_id = $1
		ORDER BY id
	`, flightPlanID)
	if err != nil {
		return nil, mapErr(err, "list recons")
	}
	defer rows.Close()

	recons := []domain.Recon{}
	for rows.Next() {
		var rc domain.Recon
		if err := rows.Scan(&rc.ID, &rc.FlightPlanID, &rc.CreatedAt); err != nil {
			return nil, err
		}
		recons = append(recons, rc)
	}
	return recons, rows.Err()
}

func (r *ReconRepo) GetByID(ctx context.Context, id int64) (*domain.Recon, error) {
	var rc domain.Recon
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, flightplan_id, created_at FROM recons WHERE id = $1
	`, id).Scan(&rc.ID, &rc.FlightPlanID, &rc.CreatedAt)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("recon %d", id))
	}
	return &rc, nil
}

func (r *ReconRepo) Create(ctx context.Context, recon *domain.Recon) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO recons (flightplan_id) VALUES ($1)
		RETURNING id, created_at
	`, recon.FlightPlanID).Scan(&recon.ID, &recon.CreatedAt)
	return mapErr(err, fmt.Sprintf("recon of flight plan %d", recon.FlightPlanID))
}

func (r *ReconRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM recons WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, fmt.Sprintf("recon %d", id))
	}
	return affected(tag, fmt.Sprintf("recon %d", id))
}
