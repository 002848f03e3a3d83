package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
	"github.com/samirrijal/dronesurvey/internal/pkg/telemetry"
)

// FlightPlanService handles flight plan business logic, including the
// vertical coverage builder.
type FlightPlanService struct {
	plans     ports.FlightPlanRepository
	recons    ports.ReconRepository
	resources ports.ResourceRepository
	content   ports.ContentStore
	cache     ports.CacheService
	info      ports.AppInfoRepository
	builder   *flightpath.Builder
	now       func() time.Time
}

// NewFlightPlanService creates a new FlightPlanService. content, cache and
// info may be nil.
func NewFlightPlanService(
	plans ports.FlightPlanRepository,
	recons ports.ReconRepository,
	resources ports.ResourceRepository,
	content ports.ContentStore,
	cache ports.CacheService,
	info ports.AppInfoRepository,
	builder *flightpath.Builder,
) *FlightPlanService {
	return &FlightPlanService{
		plans:     plans,
		recons:    recons,
		resources: resources,
		content:   content,
		cache:     cache,
		info:      info,
		builder:   builder,
		now:       time.Now,
	}
}

// CreateFlightPlanInput is a hand-made flight plan.
type CreateFlightPlanInput struct {
	Name      string            `json:"name"`
	Waypoints []domain.Waypoint `json:"waypoints"`
}

// UpdateFlightPlanInput renames a plan and/or rebuilds its waypoints.
type UpdateFlightPlanInput struct {
	Name    *string                `json:"name"`
	Builder *domain.BuilderOptions `json:"builder_options"`
}

// BuildInput is a builder request.
type BuildInput struct {
	Name    string
	Save    bool
	Options domain.BuilderOptions
}

// BuildOutput is the built path and, when saved, the stored plan.
type BuildOutput struct {
	Name   string                   `json:"flightplan_name"`
	Result *domain.FlightPathResult `json:"result"`
	Plan   *domain.FlightPlan       `json:"flightplan,omitempty"`
}

// List returns all flight plans without waypoints.
func (s *FlightPlanService) List(ctx context.Context) ([]domain.FlightPlan, error) {
	return s.plans.List(ctx)
}

// Get returns a flight plan with its waypoints.
func (s *FlightPlanService) Get(ctx context.Context, id int64) (*domain.FlightPlan, error) {
	key := flightPlanKey(id)
	var cached domain.FlightPlan
	if cacheGet(ctx, s.cache, "flightplan", key, &cached) {
		return &cached, nil
	}

	fp, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, key, fp, 300)
	return fp, nil
}

// Create stores a flight plan with hand-placed waypoints.
func (s *FlightPlanService) Create(ctx context.Context, in CreateFlightPlanInput) (*domain.FlightPlan, error) {
	name, err := validateFlightPlanName(in.Name)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(in.Waypoints))
	for i := range in.Waypoints {
		wp := &in.Waypoints[i]
		if err := validateWaypoint(wp); err != nil {
			return nil, err
		}
		if seen[wp.Number] {
			return nil, fmt.Errorf("waypoint number %d: %w", wp.Number, domain.ErrAlreadyExists)
		}
		seen[wp.Number] = true
	}

	waypoints := append([]domain.Waypoint(nil), in.Waypoints...)
	sort.Slice(waypoints, func(i, j int) bool { return waypoints[i].Number < waypoints[j].Number })

	fp := &domain.FlightPlan{
		Name:      name,
		Waypoints: waypoints,
		Distance:  s.builder.TotalLength(waypoints),
	}
	if err := s.plans.Create(ctx, fp); err != nil {
		return nil, err
	}

	touch(ctx, s.info)
	return fp, nil
}

// Build runs the vertical coverage builder and optionally saves the result
// as a new flight plan named in.Name.
func (s *FlightPlanService) Build(ctx context.Context, in BuildInput) (*BuildOutput, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "flightplan.build")
	defer span.End()

	name, err := validateFlightPlanName(in.Name)
	if err != nil {
		metrics.BuildErrors.WithLabelValues("name").Inc()
		return nil, err
	}

	res, err := s.builder.Build(in.Options)
	if err != nil {
		metrics.BuildErrors.WithLabelValues("options").Inc()
		return nil, err
	}
	metrics.ObserveBuild(len(res.Waypoints), res.Truncated)
	span.SetAttributes(
		attribute.Int("waypoints", len(res.Waypoints)),
		attribute.Bool("truncated", res.Truncated),
	)

	log := logging.FromContext(ctx)
	if res.Truncated {
		log.Warn("flight path truncated by waypoint ceiling",
			"name", name, "waypoints", len(res.Waypoints), "layers", res.Layers)
	}

	out := &BuildOutput{Name: name, Result: res}
	if !in.Save {
		return out, nil
	}

	opts := res.Options
	fp := &domain.FlightPlan{
		Name:      name,
		Distance:  res.TotalLength,
		Builder:   &opts,
		Waypoints: res.Waypoints,
	}
	if err := s.plans.Create(ctx, fp); err != nil {
		return nil, err
	}
	log.Info("flight plan built", "id", fp.ID, "name", name, "waypoints", len(fp.Waypoints), "distance", fp.Distance)

	touch(ctx, s.info)
	out.Plan = fp
	return out, nil
}

// Update renames a plan and/or replaces its waypoints with a fresh build.
// Everything is validated before the first write, and a rename combined
// with a rebuild is stored in one transaction. The replaced waypoint set is
// archived to the content store.
func (s *FlightPlanService) Update(ctx context.Context, id int64, in UpdateFlightPlanInput) (*domain.FlightPlan, error) {
	current, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var rename string
	if in.Name != nil {
		name, err := validateFlightPlanName(*in.Name)
		if err != nil {
			return nil, err
		}
		if name != current.Name {
			rename = name
		}
	}

	var res *domain.FlightPathResult
	if in.Builder != nil {
		res, err = s.builder.Build(*in.Builder)
		if err != nil {
			metrics.BuildErrors.WithLabelValues("options").Inc()
			return nil, err
		}
		metrics.ObserveBuild(len(res.Waypoints), res.Truncated)
	}

	if res == nil && rename == "" {
		return current, nil
	}

	// A failed write may still have reached storage.
	defer cacheDelete(ctx, s.cache, flightPlanKey(id))

	if res != nil {
		s.archive(ctx, current)
		opts := res.Options
		if err := s.plans.ReplaceWaypoints(ctx, id, rename, res.Waypoints, res.TotalLength, &opts); err != nil {
			return nil, err
		}
	} else if err := s.plans.Rename(ctx, id, rename); err != nil {
		return nil, err
	}

	touch(ctx, s.info)
	return s.plans.GetByID(ctx, id)
}

// archive keeps a snapshot of a plan before its waypoints are replaced.
// Failures are logged; they never block the update.
func (s *FlightPlanService) archive(ctx context.Context, fp *domain.FlightPlan) {
	if s.content == nil {
		return
	}
	path := fmt.Sprintf("%sflightplans/%d/%d.msgpack.zst", ArchivePrefix, fp.ID, s.now().UnixNano())
	n, err := s.content.StoreObject(ctx, path, fp)
	if err != nil {
		logging.FromContext(ctx).Warn("flight plan archive failed", "id", fp.ID, "error", err)
		return
	}
	logging.FromContext(ctx).Debug("flight plan archived", "id", fp.ID, "path", path, "bytes", n)
}

// Delete removes a plan with its waypoints, recons, resources and their content.
func (s *FlightPlanService) Delete(ctx context.Context, id int64) error {
	if _, err := s.plans.GetByID(ctx, id); err != nil {
		return err
	}

	recons, err := s.recons.List(ctx, &id)
	if err != nil {
		return err
	}
	var resources []domain.Resource
	for _, r := range recons {
		reconID := r.ID
		rs, err := s.resources.List(ctx, &reconID)
		if err != nil {
			return err
		}
		resources = append(resources, rs...)
	}

	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}
	cacheDelete(ctx, s.cache, flightPlanKey(id))
	purgeAfterDelete(ctx, s.content, resources)

	touch(ctx, s.info)
	return nil
}

// TotalLength measures waypoints with the builder's metric.
func (s *FlightPlanService) TotalLength(waypoints []domain.Waypoint) float64 {
	return s.builder.TotalLength(waypoints)
}

// MaxWaypoints is the builder's waypoint ceiling.
func (s *FlightPlanService) MaxWaypoints() int {
	return s.builder.MaxWaypoints()
}
