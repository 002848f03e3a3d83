package domain

import "fmt"

// GeoPoint represents a ground coordinate (WGS 84) without altitude.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// At returns the point lifted to the given altitude.
func (p GeoPoint) At(alt float64) GeoPosition {
	return GeoPosition{Lat: p.Lat, Lon: p.Lon, Alt: alt}
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if !(p.Lat >= -90 && p.Lat <= 90) {
		return fmt.Errorf("lat must be between -90 and 90, got %g", p.Lat)
	}
	if !(p.Lon >= -180 && p.Lon <= 180) {
		return fmt.Errorf("lon must be between -180 and 180, got %g", p.Lon)
	}
	return nil
}

// GeoPosition is a 3-D position; altitude is in meters.
type GeoPosition struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lon float64 `json:"lon" msgpack:"lon"`
	Alt float64 `json:"alt" msgpack:"alt"`
}

// Point drops the altitude.
func (p GeoPosition) Point() GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// Gimbal is the camera orientation in degrees.
type Gimbal struct {
	Yaw   float64 `json:"yaw" msgpack:"yaw"`
	Pitch float64 `json:"pitch" msgpack:"pitch"`
	Roll  float64 `json:"roll" msgpack:"roll"`
}

// Validate checks every angle is within [-180, 180].
func (g Gimbal) Validate() error {
	for _, a := range []struct {
		name string
		v    float64
	}{{"yaw", g.Yaw}, {"pitch", g.Pitch}, {"roll", g.Roll}} {
		if !ValidAngle(a.v) {
			return fmt.Errorf("%s must be between -180 and 180, got %g", a.name, a.v)
		}
	}
	return nil
}

// DronePose is a drone's position plus heading and camera orientation.
// Poses are plain values, so every waypoint owns its own copy.
type DronePose struct {
	Rotation float64     `json:"rotation" msgpack:"rotation"`
	Coord    GeoPosition `json:"coord" msgpack:"coord"`
	Gimbal   Gimbal      `json:"gimbal" msgpack:"gimbal"`
}

// Validate checks the pose's coordinate and angle ranges.
func (p DronePose) Validate() error {
	if !ValidAngle(p.Rotation) {
		return fmt.Errorf("rotation must be between -180 and 180, got %g", p.Rotation)
	}
	if err := p.Coord.Point().Validate(); err != nil {
		return err
	}
	return p.Gimbal.Validate()
}

// ValidAngle reports whether deg lies in [-180, 180].
func ValidAngle(deg float64) bool {
	return deg >= -180 && deg <= 180
}
