package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// FlightPlanRepo implements ports.FlightPlanRepository with pgx.
type FlightPlanRepo struct {
	db *DB
}

// NewFlightPlanRepo creates a new FlightPlanRepo.
func NewFlightPlanRepo(db *DB) *FlightPlanRepo {
	return &FlightPlanRepo{db: db}
}

func (r *FlightPlanRepo) List(ctx context.Context) ([]domain.FlightPlan, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, distance, builder_options, created_at, updated_at
		FROM flightplans ORDER BY id
	`)
	if err != nil {
		return nil, mapErr(err, "list flight plans")
	}
	defer rows.Close()

	var plans []domain.FlightPlan
	for rows.Next() {
		var fp domain.FlightPlan
		var opts []byte
		if err := rows.Scan(&fp.ID, &fp.Name, &fp.Distance, &opts, &fp.CreatedAt, &fp.UpdatedAt); err != nil {
			return nil, err
		}
		if fp.Builder, err = decodeOptions(opts); err != nil {
			return nil, err
		}
		plans = append(plans, fp)
	}
	return plans, rows.Err()
}

func (r *FlightPlanRepo) GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error) {
	var fp domain.FlightPlan
	var opts []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, distance, builder_options, created_at, updated_at
		FROM flightplans WHERE id = $1
	`, id).Scan(&fp.ID, &fp.Name, &fp.Distance, &opts, &fp.CreatedAt, &fp.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("flight plan %d", id))
	}
	if fp.Builder, err = decodeOptions(opts); err != nil {
		return nil, err
	}

	fp.Waypoints, err = listWaypoints(ctx, r.db.Pool, &id)
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

func (r *FlightPlanRepo) Create(ctx context.Context, fp *domain.FlightPlan) error {
	opts, err := encodeOptions(fp.Builder)
	if err != nil {
		return err
	}
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO flightplans (name, distance, builder_options)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, fp.Name, fp.Distance, opts).Scan(&fp.ID, &fp.CreatedAt, &fp.UpdatedAt)
		if err != nil {
			return mapErr(err, fmt.Sprintf("flight plan %q", fp.Name))
		}
		return insertWaypoints(ctx, tx, fp.ID, fp.Waypoints)
	})
}

func (r *FlightPlanRepo) Rename(ctx context.Context, id int64, name string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE flightplans SET name = $2, updated_at = now() WHERE id = $1
	`, id, name)
	if err != nil {
		return mapErr(err, fmt.Sprintf("flight plan %q", name))
	}
	return affected(tag, fmt.Sprintf("flight plan %d", id))
}

func (r *FlightPlanRepo) ReplaceWaypoints(ctx context.Context, id int64, name string, waypoints []domain.Waypoint, distance float64, builder *domain.BuilderOptions) error {
	opts, err := encodeOptions(builder)
	if err != nil {
		return err
	}
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE flightplans
			SET name = COALESCE(NULLIF($4::text, ''), name), distance = $2, builder_options = $3, updated_at = now()
			WHERE id = $1
		`, id, distance, opts, name)
		if err != nil {
			return mapErr(err, fmt.Sprintf("flight plan %q", name))
		}
		if err := affected(tag, fmt.Sprintf("flight plan %d", id)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM waypoints WHERE flightplan_id = $1`, id); err != nil {
			return mapErr(err, "delete waypoints")
		}
		return insertWaypoints(ctx, tx, id, waypoints)
	})
}

func (r *FlightPlanRepo) UpdateSummary(ctx context.Context, id int64, distance float64, builder *domain.BuilderOptions) error {
	opts, err := encodeOptions(builder)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE flightplans SET distance = $2, builder_options = $3, updated_at = now()
		WHERE id = $1
	`, id, distance, opts)
	if err != nil {
		return mapErr(err, fmt.Sprintf("flight plan %d", id))
	}
	return affected(tag, fmt.Sprintf("flight plan %d", id))
}

// Delete relies on ON DELETE CASCADE for waypoints, recons, resources and analyses.
func (r *FlightPlanRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM flightplans WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, fmt.Sprintf("flight plan %d", id))
	}
	return affected(tag, fmt.Sprintf("flight plan %d", id))
}

// insertWaypoints queues one insert per waypoint using pgx.Batch.
func insertWaypoints(ctx context.Context, tx pgx.Tx, flightPlanID int64, waypoints []domain.Waypoint) error {
	if len(waypoints) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range waypoints {
		wp := &waypoints[i]
		wp.FlightPlanID = flightPlanID
		args := append([]any{flightPlanID, wp.Number}, poseArgs(wp.Parameters)...)
		batch.Queue(`
			INSERT INTO waypoints (flightplan_id, number, `+poseColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at
		`, args...).QueryRow(func(row pgx.Row) error {
			return row.Scan(&wp.ID, &wp.CreatedAt)
		})
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapErr(err, "insert waypoints")
	}
	return nil
}

func encodeOptions(opts *domain.BuilderOptions) ([]byte, error) {
	if opts == nil {
		return nil, nil
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encode builder options: %w", err)
	}
	return data, nil
}

func decodeOptions(data []byte) (*domain.BuilderOptions, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var opts domain.BuilderOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("decode builder options: %w", err)
	}
	return &opts, nil
}
