package flightpath

import (
	"fmt"
	"math"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
)

// Line is one resampled straight pass at a fixed altitude.
type Line struct {
	Points []domain.GeoPosition
	// Truncated is set when maxPoints cut the line short.
	Truncated bool
}

// Resample walks from start to end in hops of step meters at a fixed altitude.
//
// Every hop is measured from the last emitted point, so rounding never
// accumulates into the final segment. A line of length L yields
// floor(L/step)+1 points (two when L < step) and always ends exactly on end.
// The maxPoints ceiling is applied before the endpoint is appended: a capped
// line has exactly maxPoints points and still terminates on end. A budget of
// one yields only the start point; a budget of zero yields nothing.
func Resample(m geospatial.Metric, start, end domain.GeoPoint, step float64, maxPoints int, altitude float64) (Line, error) {
	if !(step > 0) || math.IsInf(step, 1) {
		return Line{}, fmt.Errorf("%w: step must be positive, got %g", ErrInvalidArgument, step)
	}
	if maxPoints <= 0 {
		return Line{Truncated: true}, nil
	}

	first := start.At(altitude)
	if maxPoints == 1 {
		return Line{Points: []domain.GeoPosition{first}, Truncated: true}, nil
	}

	// Clamp in float: a tiny step makes the hop count overflow int.
	var n int
	truncated := false
	if hops := math.Floor(m(start.Lat, start.Lon, end.Lat, end.Lon) / step); hops > float64(maxPoints-1) {
		n = maxPoints - 1
		truncated = true
	} else {
		n = int(hops)
	}

	points := make([]domain.GeoPosition, 0, max(n, 1)+1)
	points = append(points, first)

	last := first
	for i := 1; i < n; i++ {
		d := m(last.Lat, last.Lon, end.Lat, end.Lon)
		coef := step / d
		last = domain.GeoPosition{
			Lat: last.Lat + coef*(end.Lat-last.Lat),
			Lon: last.Lon + coef*(end.Lon-last.Lon),
			Alt: altitude,
		}
		points = append(points, last)
	}

	points = append(points, end.At(altitude))
	return Line{Points: points, Truncated: truncated}, nil
}
