package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// AnalysisRepo implements ports.AnalysisRepository with pgx.
type AnalysisRepo struct {
	db *DB
}

func NewAnalysisRepo(db *DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

func (r *AnalysisRepo) List(ctx context.Context) ([]domain.Analysis, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, minuend_recon_id, subtrahend_recon_id, state, total, current,
		       COALESCE(message, ''), result, created_at, updated_at
		FROM analyses ORDER BY id
	`)
	if err != nil {
		return nil, mapErr(err, "list analyses")
	}
	defer rows.Close()

	analyses := []domain.Analysis{}
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.MinuendReconID, &a.SubtrahendReconID, &a.State, &a.Total, &a.Current,
			&a.Message, &a.Result, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func (r *AnalysisRepo) GetByID(ctx context.Context, id int64) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, minuend_recon_id, subtrahend_recon_id, state, total, current,
		       COALESCE(message, ''), result, created_at, updated_at
		FROM analyses WHERE id = $1
	`, id).Scan(&a.ID, &a.MinuendReconID, &a.SubtrahendReconID, &a.State, &a.Total, &a.Current,
		&a.Message, &a.Result, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("analysis %d", id))
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, analysis_id, filename, result,
		       COALESCE(minuend_resource_id, 0), COALESCE(subtrahend_resource_id, 0)
		FROM analysis_results WHERE analysis_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, mapErr(err, "list analysis results")
	}
	defer rows.Close()

	for rows.Next() {
		var res domain.AnalysisResult
		if err := rows.Scan(&res.ID, &res.AnalysisID, &res.Filename, &res.Result,
			&res.MinuendResourceID, &res.SubtrahendResourceID); err != nil {
			return nil, err
		}
		a.Results = append(a.Results, res)
	}
	return &a, rows.Err()
}

func (r *AnalysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO analyses (minuend_recon_id, subtrahend_recon_id, state)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, a.MinuendReconID, a.SubtrahendReconID, a.State).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapErr(err, "analysis")
}

func (r *AnalysisRepo) UpdateProgress(ctx context.Context, a *domain.Analysis) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE analyses
		SET state = $2, total = $3, current = $4, message = NULLIF($5, ''), result = $6, updated_at = now()
		WHERE id = $1
	`, a.ID, a.State, a.Total, a.Current, a.Message, a.Result)
	if err != nil {
		return mapErr(err, fmt.Sprintf("analysis %d", a.ID))
	}
	return affected(tag, fmt.Sprintf("analysis %d", a.ID))
}

// AddResult upserts on (analysis_id, filename) so retried pairs stay unique.
func (r *AnalysisRepo) AddResult(ctx context.Context, res *domain.AnalysisResult) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO analysis_results (analysis_id, filename, result, minuend_resource_id, subtrahend_resource_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (analysis_id, filename) DO UPDATE SET result = EXCLUDED.result
		RETURNING id
	`, res.AnalysisID, res.Filename, res.Result, res.MinuendResourceID, res.SubtrahendResourceID).Scan(&res.ID)
	return mapErr(err, fmt.Sprintf("result %s", res.Filename))
}

func (r *AnalysisRepo) GetResult(ctx context.Context, id int64) (*domain.AnalysisResult, error) {
	var res domain.AnalysisResult
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, analysis_id, filename, result,
		       COALESCE(minuend_resource_id, 0), COALESCE(subtrahend_resource_id, 0)
		FROM analysis_results WHERE id = $1
	`, id).Scan(&res.ID, &res.AnalysisID, &res.Filename, &res.Result,
		&res.MinuendResourceID, &res.SubtrahendResourceID)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("result %d", id))
	}
	return &res, nil
}

func (r *AnalysisRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, fmt.Sprintf("analysis %d", id))
	}
	return affected(tag, fmt.Sprintf("analysis %d", id))
}
