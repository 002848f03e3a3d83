package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// WaypointRepo implements ports.WaypointRepository with pgx.
type WaypointRepo struct {
	db *DB
}

// NewWaypointRepo creates a new WaypointRepo.
func NewWaypointRepo(db *DB) *WaypointRepo {
	return &WaypointRepo{db: db}
}

func (r *WaypointRepo) List(ctx context.Context, flightPlanID *int64) ([]domain.Waypoint, error) {
	return listWaypoints(ctx, r.db.Pool, flightPlanID)
}

func (r *WaypointRepo) GetByID(ctx context.Context, id int64) (*domain.Waypoint, error) {
	var wp domain.Waypoint
	dest := append([]any{&wp.ID, &wp.FlightPlanID, &wp.Number}, poseDest(&wp.Parameters)...)
	dest = append(dest, &wp.CreatedAt)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, flightplan_id, number, `+poseColumns+`, created_at
		FROM waypoints WHERE id = $1
	`, id).Scan(dest...)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("waypoint %d", id))
	}
	return &wp, nil
}

func (r *WaypointRepo) Create(ctx context.Context, wp *domain.Waypoint) error {
	args := append([]any{wp.FlightPlanID, wp.Number}, poseArgs(wp.Parameters)...)
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO waypoints (flightplan_id, number, `+poseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, args...).Scan(&wp.ID, &wp.CreatedAt)
	return mapErr(err, fmt.Sprintf("waypoint %d", wp.Number))
}

func (r *WaypointRepo) Update(ctx context.Context, wp *domain.Waypoint) error {
	args := append([]any{wp.ID, wp.Number}, poseArgs(wp.Parameters)...)
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE waypoints SET number = $2, rotation = $3, lat = $4, lon = $5, alt = $6,
		       gimbal_yaw = $7, gimbal_pitch = $8, gimbal_roll = $9
		WHERE id = $1
	`, args...)
	if err != nil {
		return mapErr(err, fmt.Sprintf("waypoint %d", wp.Number))
	}
	return affected(tag, fmt.Sprintf("waypoint %d", wp.ID))
}

// listWaypoints returns waypoints ordered by plan and number.
func listWaypoints(ctx context.Context, pool *pgxpool.Pool, flightPlanID *int64) ([]domain.Waypoint, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, flightplan_id, number, `+poseColumns+`, created_at
		FROM waypoints
		WHERE $1::bigint IS NULL OR flightplan_id = $1
		ORDER BY flightplan_id, number
	`, flightPlanID)
	if err != nil {
		return nil, mapErr(err, "list waypoints")
	}
	defer rows.Close()

	waypoints := []domain.Waypoint{}
	for rows.Next() {
		var wp domain.Waypoint
		dest := append([]any{&wp.ID, &wp.FlightPlanID, &wp.Number}, poseDest(&wp.Parameters)...)
		dest = append(dest, &wp.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, rows.Err()
}

func (r *WaypointRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM waypoints WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, fmt.Sprintf("waypoint %d", id))
	}
	return affected(tag, fmt.Sprintf("waypoint %d", id))
}
