package flightpath

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// FeatureCollection renders waypoints as GeoJSON: one LineString for the
// flown path followed by one Point per waypoint. Altitude and camera pose
// are carried in the point properties.
func FeatureCollection(name string, distance float64, waypoints []domain.Waypoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(waypoints))
	for _, wp := range waypoints {
		line = append(line, orb.Point{wp.Parameters.Coord.Lon, wp.Parameters.Coord.Lat})
	}
	path := geojson.NewFeature(line)
	path.Properties["name"] = name
	path.Properties["distance"] = distance
	path.Properties["waypoints"] = len(waypoints)
	fc.Append(path)

	for _, wp := range waypoints {
		p := wp.Parameters
		f := geojson.NewFeature(orb.Point{p.Coord.Lon, p.Coord.Lat})
		f.Properties["number"] = wp.Number
		f.Properties["alt"] = p.Coord.Alt
		f.Properties["rotation"] = p.Rotation
		f.Properties["gimbal"] = map[string]float64{"yaw": p.Gimbal.Yaw, "pitch": p.Gimbal.Pitch, "roll": p.Gimbal.Roll}
		fc.Append(f)
	}
	return fc
}
