package usecases

import (
	"context"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
)

// WaypointService handles manual waypoint edits.
//
// Any edit detaches the plan from its builder options, since the plan is no
// longer the builder's output, and refreshes the plan distance.
type WaypointService struct {
	waypoints ports.WaypointRepository
	plans     ports.FlightPlanRepository
	builder   *flightpath.Builder
	cache     ports.CacheService
	info      ports.AppInfoRepository
}

// NewWaypointService creates a new WaypointService.
func NewWaypointService(waypoints ports.WaypointRepository, plans ports.FlightPlanRepository, builder *flightpath.Builder, cache ports.CacheService, info ports.AppInfoRepository) *WaypointService {
	return &WaypointService{waypoints: waypoints, plans: plans, builder: builder, cache: cache, info: info}
}

// List returns waypoints, optionally restricted to one flight plan.
func (s *WaypointService) List(ctx context.Context, flightPlanID *int64) ([]domain.Waypoint, error) {
	return s.waypoints.List(ctx, flightPlanID)
}

// Get returns a single waypoint.
func (s *WaypointService) Get(ctx context.Context, id int64) (*domain.Waypoint, error) {
	return s.waypoints.GetByID(ctx, id)
}

// Create adds a waypoint to an existing plan.
func (s *WaypointService) Create(ctx context.Context, wp *domain.Waypoint) error {
	if err := validateWaypoint(wp); err != nil {
		return err
	}
	if _, err := s.plans.GetByID(ctx, wp.FlightPlanID); err != nil {
		return err
	}
	if err := s.waypoints.Create(ctx, wp); err != nil {
		return err
	}
	return s.refresh(ctx, wp.FlightPlanID)
}

// Update replaces a waypoint's number and parameters.
func (s *WaypointService) Update(ctx context.Context, wp *domain.Waypoint) error {
	if err := validateWaypoint(wp); err != nil {
		return err
	}
	current, err := s.waypoints.GetByID(ctx, wp.ID)
	if err != nil {
		return err
	}
	wp.FlightPlanID = current.FlightPlanID
	wp.CreatedAt = current.CreatedAt
	if err := s.waypoints.Update(ctx, wp); err != nil {
		return err
	}
	return s.refresh(ctx, wp.FlightPlanID)
}

// Delete removes a waypoint.
func (s *WaypointService) Delete(ctx context.Context, id int64) error {
	wp, err := s.waypoints.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.waypoints.Delete(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, wp.FlightPlanID)
}

func (s *WaypointService) refresh(ctx context.Context, flightPlanID int64) error {
	fp, err := s.plans.GetByID(ctx, flightPlanID)
	if err != nil {
		return err
	}
	if err := s.plans.UpdateSummary(ctx, flightPlanID, s.builder.TotalLength(fp.Waypoints), nil); err != nil {
		return err
	}
	cacheDelete(ctx, s.cache, flightPlanKey(flightPlanID))
	touch(ctx, s.info)
	return nil
}
