package geospatial

import (
	"fmt"
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// Metres per degree at the survey reference latitude.
const (
	MetersPerDegreeLat = 111300.0
	MetersPerDegreeLon = 71500.0
)

// Metric returns the horizontal distance in meters between two points.
type Metric func(lat1, lon1, lat2, lon2 float64) float64

// FlatEarth scales the degree deltas by fixed per-degree distances.
// Good to well under a percent at survey scale (tens to hundreds of meters).
func FlatEarth(lat1, lon1, lat2, lon2 float64) float64 {
	dx := MetersPerDegreeLon * (lon2 - lon1)
	dy := MetersPerDegreeLat * (lat2 - lat1)
	return math.Sqrt(dx*dx + dy*dy)
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// ParseMetric maps a configuration name ("flat" or "haversine") to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat", "flat_earth":
		return FlatEarth, nil
	case "haversine", "great_circle":
		return Haversine, nil
	}
	return nil, fmt.Errorf("unknown distance metric %q", name)
}

// VerticalEpsilon is the horizontal distance below which a move is
// considered purely vertical.
const VerticalEpsilon = 1e-9

// StepLength is the length flown between two 3-D positions: the horizontal
// distance, or the altitude delta alone when the move is vertical.
func StepLength(m Metric, lat1, lon1, alt1, lat2, lon2, alt2 float64) float64 {
	d := m(lat1, lon1, lat2, lon2)
	if d < VerticalEpsilon {
		return math.Abs(alt2 - alt1)
	}
	return d
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
