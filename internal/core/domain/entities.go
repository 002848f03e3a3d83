package domain

import (
	"time"
)

// MaxWaypointNumber is the highest waypoint number a flight controller accepts.
const MaxWaypointNumber = 98

// MaxResourceNumber is the highest capture number within a recon.
const MaxResourceNumber = 99

// BuilderOptions are the survey parameters of a vertical coverage sweep.
type BuilderOptions struct {
	Coord1     GeoPoint `json:"coord1" msgpack:"coord1"`
	Coord2     GeoPoint `json:"coord2" msgpack:"coord2"`
	AltStart   float64  `json:"alt_start" msgpack:"alt_start"`
	AltEnd     float64  `json:"alt_end" msgpack:"alt_end"`
	HIncrement float64  `json:"h_increment" msgpack:"h_increment"`
	VIncrement float64  `json:"v_increment" msgpack:"v_increment"`
	DRotation  float64  `json:"d_rotation" msgpack:"d_rotation"`
	DGimbal    Gimbal   `json:"d_gimbal" msgpack:"d_gimbal"`
}

// FlightPlan is a named, ordered set of waypoints.
type FlightPlan struct {
	ID        int64           `json:"id" msgpack:"id"`
	Name      string          `json:"name" msgpack:"name"`
	Distance  float64         `json:"distance" msgpack:"distance"` // meters
	Builder   *BuilderOptions `json:"builder_options,omitempty" msgpack:"builder_options"`
	Waypoints []Waypoint      `json:"waypoints" msgpack:"waypoints"`
	CreatedAt time.Time       `json:"created_at" msgpack:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" msgpack:"updated_at"`
}

// Waypoint is one pose in flight order.
type Waypoint struct {
	ID           int64     `json:"id" msgpack:"id"`
	FlightPlanID int64     `json:"flightplan_id" msgpack:"flightplan_id"`
	Number       int       `json:"number" msgpack:"number"`
	Parameters   DronePose `json:"parameters" msgpack:"parameters"`
	CreatedAt    time.Time `json:"created_at" msgpack:"created_at"`
}

// Recon is one flown pass of a flight plan.
type Recon struct {
	ID           int64     `json:"id"`
	FlightPlanID int64     `json:"flightplan_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Resource is an image captured during a recon.
type Resource struct {
	ID         int64     `json:"id"`
	ReconID    int64     `json:"recon_id"`
	Number     int       `json:"number"`
	Filename   *string   `json:"filename,omitempty"`
	Parameters DronePose `json:"parameters"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasContent reports whether an image has been uploaded.
func (r *Resource) HasContent() bool {
	return r.Filename != nil && *r.Filename != ""
}

// AnalysisState is the lifecycle of a change analysis job.
type AnalysisState string

const (
	AnalysisPending  AnalysisState = "PENDING"
	AnalysisProgress AnalysisState = "PROGRESS"
	AnalysisSuccess  AnalysisState = "SUCCESS"
	AnalysisFailure  AnalysisState = "FAILURE"
)

// Terminal reports whether the job is finished.
func (s AnalysisState) Terminal() bool {
	return s == AnalysisSuccess || s == AnalysisFailure
}

// Analysis compares the resources of two recons of the same surface.
type Analysis struct {
	ID                int64            `json:"id"`
	MinuendReconID    int64            `json:"minuend_recon_id"`
	SubtrahendReconID int64            `json:"subtrahend_recon_id"`
	State             AnalysisState    `json:"state"`
	Total             int              `json:"total"`
	Current           int              `json:"current"`
	Message           string           `json:"message,omitempty"`
	Result            *float64         `json:"result,omitempty"`
	Results           []AnalysisResult `json:"results,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// AnalysisResult is the comparison of one resource pair.
type AnalysisResult struct {
	ID                   int64   `json:"id"`
	AnalysisID           int64   `json:"analysis_id"`
	Filename             string  `json:"filename"`
	Result               float64 `json:"result"`
	MinuendResourceID    int64   `json:"minuend_resource_id"`
	SubtrahendResourceID int64   `json:"subtrahend_resource_id"`
}

// AnalysisProgressEvent is broadcast while an analysis runs.
type AnalysisProgressEvent struct {
	AnalysisID int64         `json:"analysis_id"`
	State      AnalysisState `json:"state"`
	Total      int           `json:"total"`
	Current    int           `json:"current"`
	Message    string        `json:"message,omitempty"`
}

// ResourceUploadedEvent is published after image content is stored.
type ResourceUploadedEvent struct {
	ResourceID int64  `json:"resource_id"`
	ReconID    int64  `json:"recon_id"`
	Filename   string `json:"filename"`
}

// AppInformations tracks when any survey data last changed.
type AppInformations struct {
	UpdatedOn time.Time `json:"updated_on"`
}

// FlightPathResult is the output of one builder run.
type FlightPathResult struct {
	Waypoints   []Waypoint     `json:"waypoints"`
	Options     BuilderOptions `json:"options"`
	TotalLength float64        `json:"total_length"` // meters
	Layers      int            `json:"layers"`
	Truncated   bool           `json:"truncated"`
}
