package flightpath

import (
	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
)

// TotalLength is the distance flown through waypoints in slice order.
// Purely vertical transitions count their altitude change.
func TotalLength(m geospatial.Metric, waypoints []domain.Waypoint) float64 {
	var total float64
	for i := 1; i < len(waypoints); i++ {
		a := waypoints[i-1].Parameters.Coord
		b := waypoints[i].Parameters.Coord
		total += geospatial.StepLength(m, a.Lat, a.Lon, a.Alt, b.Lat, b.Lon, b.Alt)
	}
	return total
}
