package flightpath

import (
	"fmt"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// Materialize numbers the first maxNumber positions of path from zero and
// gives each waypoint its own copy of the rotation and gimbal.
func Materialize(path []domain.GeoPosition, maxNumber int, rotation float64, gimbal domain.Gimbal) ([]domain.Waypoint, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if !domain.ValidAngle(rotation) {
		return nil, fmt.Errorf("%w: rotation must be between -180 and 180, got %g", ErrInvalidArgument, rotation)
	}
	if err := gimbal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: gimbal %v", ErrInvalidArgument, err)
	}

	n := min(len(path), maxNumber)
	waypoints := make([]domain.Waypoint, n)
	for i := 0; i < n; i++ {
		waypoints[i] = domain.Waypoint{
			Number: i,
			Parameters: domain.DronePose{
				Rotation: rotation,
				Coord:    path[i],
				Gimbal:   gimbal,
			},
		}
	}
	return waypoints, nil
}
