// Package flightpath turns survey parameters into a bounded, numbered
// boustrophedon sweep of waypoints covering a vertical surface.
package flightpath

import (
	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
)

// DefaultMaxWaypoints is the flight controller's mission limit.
const DefaultMaxWaypoints = domain.MaxWaypointNumber + 1

// Builder builds vertical coverage flight paths. It holds no mutable state
// and is safe for concurrent use.
type Builder struct {
	metric       geospatial.Metric
	maxWaypoints int
}

// NewBuilder creates a Builder. A nil metric selects flat-earth distances;
// maxWaypoints outside 1..DefaultMaxWaypoints selects DefaultMaxWaypoints.
func NewBuilder(metric geospatial.Metric, maxWaypoints int) *Builder {
	if metric == nil {
		metric = geospatial.FlatEarth
	}
	if maxWaypoints <= 0 || maxWaypoints > DefaultMaxWaypoints {
		maxWaypoints = DefaultMaxWaypoints
	}
	return &Builder{metric: metric, maxWaypoints: maxWaypoints}
}

// MaxWaypoints returns the waypoint ceiling.
func (b *Builder) MaxWaypoints() int { return b.maxWaypoints }

// Build validates opts and returns the numbered sweep. A result whose
// Truncated flag is set covers only part of the altitude band.
func (b *Builder) Build(opts domain.BuilderOptions) (*domain.FlightPathResult, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	sw, err := Assemble(b.metric, opts.Coord1, opts.Coord2,
		opts.HIncrement, opts.VIncrement, opts.AltStart, opts.AltEnd, b.maxWaypoints)
	if err != nil {
		return nil, err
	}

	waypoints, err := Materialize(sw.Path, b.maxWaypoints, opts.DRotation, opts.DGimbal)
	if err != nil {
		return nil, err
	}

	return &domain.FlightPathResult{
		Waypoints:   waypoints,
		Options:     opts,
		TotalLength: TotalLength(b.metric, waypoints),
		Layers:      sw.Layers,
		Truncated:   sw.Truncated,
	}, nil
}

// TotalLength measures waypoints with the builder's metric.
func (b *Builder) TotalLength(waypoints []domain.Waypoint) float64 {
	return TotalLength(b.metric, waypoints)
}

// Validate checks opts field by field. Range failures are reported as
// *ValidationError; identical corridor ends as ErrDegenerateInput.
func Validate(opts domain.BuilderOptions) error {
	if err := opts.Coord1.Validate(); err != nil {
		return invalidField("coord1", "%v", err)
	}
	if err := opts.Coord2.Validate(); err != nil {
		return invalidField("coord2", "%v", err)
	}
	if !(opts.AltStart > 0) {
		return invalidField("alt_start", "must be greater than 0, got %g", opts.AltStart)
	}
	if !(opts.AltEnd >= opts.AltStart) {
		return invalidField("alt_end", "must be greater than or equal to alt_start (%g), got %g", opts.AltStart, opts.AltEnd)
	}
	if !(opts.HIncrement > 0) {
		return invalidField("h_increment", "must be greater than 0, got %g", opts.HIncrement)
	}
	if !(opts.VIncrement > 0) {
		return invalidField("v_increment", "must be greater than 0, got %g", opts.VIncrement)
	}
	if !domain.ValidAngle(opts.DRotation) {
		return invalidField("d_rotation", "must be between -180 and 180, got %g", opts.DRotation)
	}
	if err := opts.DGimbal.Validate(); err != nil {
		return invalidField("d_gimbal", "%v", err)
	}
	if opts.Coord1 == opts.Coord2 {
		return ErrDegenerateInput
	}
	return nil
}
