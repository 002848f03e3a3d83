package ports

import (
	"context"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// FlightPlanRepository persists flight plans and their waypoints.
// Name uniqueness is enforced here; collisions return domain.ErrAlreadyExists.
type FlightPlanRepository interface {
	// List returns plans without their waypoints.
	List(ctx context.Context) ([]domain.FlightPlan, error)
	// GetByID returns a plan with waypoints ordered by number.
	GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error)
	// Create inserts the plan and its waypoints atomically.
	Create(ctx context.Context, fp *domain.FlightPlan) error
	Rename(ctx context.Context, id int64, name string) error
	// ReplaceWaypoints swaps the whole waypoint set and updates the summary.
	// A non-empty name renames the plan in the same transaction.
	ReplaceWaypoints(ctx context.Context, id int64, name string, waypoints []domain.Waypoint, distance float64, builder *domain.BuilderOptions) error
	// UpdateSummary sets distance and builder options (nil clears them).
	UpdateSummary(ctx context.Context, id int64, distance float64, builder *domain.BuilderOptions) error
	// Delete removes the plan and everything that references it.
	Delete(ctx context.Context, id int64) error
}

// WaypointRepository persists individual waypoints.
// Numbers are unique per flight plan; collisions return domain.ErrAlreadyExists.
type WaypointRepository interface {
	List(ctx context.Context, flightPlanID *int64) ([]domain.Waypoint, error)
	GetByID(ctx context.Context, id int64) (*domain.Waypoint, error)
	Create(ctx context.Context, wp *domain.Waypoint) error
	Update(ctx context.Context, wp *domain.Waypoint) error
	Delete(ctx context.Context, id int64) error
}

// ReconRepository persists recons.
type ReconRepository interface {
	List(ctx context.Context, flightPlanID *int64) ([]domain.Recon, error)
	GetByID(ctx context.Context, id int64) (*domain.Recon, error)
	Create(ctx context.Context, recon *domain.Recon) error
	Delete(ctx context.Context, id int64) error
}

// ResourceRepository persists recon resources.
// Numbers are unique per recon; collisions return domain.ErrAlreadyExists.
type ResourceRepository interface {
	List(ctx context.Context, reconID *int64) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, res *domain.Resource) error
	Update(ctx context.Context, res *domain.Resource) error
	SetFilename(ctx context.Context, id int64, filename *string) error
	Delete(ctx context.Context, id int64) error
}

// AnalysisRepository persists change analyses and their per-pair results.
type AnalysisRepository interface {
	List(ctx context.Context) ([]domain.Analysis, error)
	// GetByID returns the analysis with its results.
	GetByID(ctx context.Context, id int64) (*domain.Analysis, error)
	Create(ctx context.Context, a *domain.Analysis) error
	UpdateProgress(ctx context.Context, a *domain.Analysis) error
	AddResult(ctx context.Context, r *domain.AnalysisResult) error
	GetResult(ctx context.Context, id int64) (*domain.AnalysisResult, error)
	Delete(ctx context.Context, id int64) error
}

// AppInfoRepository tracks the global last-modified timestamp.
type AppInfoRepository interface {
	Get(ctx context.Context) (*domain.AppInformations, error)
	Touch(ctx context.Context) error
}
