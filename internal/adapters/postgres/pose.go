package postgres

import "github.com/samirrijal/dronesurvey/internal/core/domain"

// poseColumns is the column list of an embedded drone pose, in scan order.
const poseColumns = "rotation, lat, lon, alt, gimbal_yaw, gimbal_pitch, gimbal_roll"

func poseArgs(p domain.DronePose) []any {
	return []any{p.Rotation, p.Coord.Lat, p.Coord.Lon, p.Coord.Alt, p.Gimbal.Yaw, p.Gimbal.Pitch, p.Gimbal.Roll}
}

func poseDest(p *domain.DronePose) []any {
	return []any{&p.Rotation, &p.Coord.Lat, &p.Coord.Lon, &p.Coord.Alt, &p.Gimbal.Yaw, &p.Gimbal.Pitch, &p.Gimbal.Roll}
}
