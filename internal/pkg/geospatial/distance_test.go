package geospatial

import (
	"math"
	"testing"
)

func TestFlatEarth(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 43.3, -2.9, 43.3, -2.9, 0},
		{"east 0.001 deg", 0, 0, 0, 0.001, 71.5},
		{"north 0.001 deg", 0, 0, 0.001, 0, 111.3},
		{"diagonal", 0, 0, 0.001, 0.001, math.Hypot(71.5, 111.3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlatEarth(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("FlatEarth = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHaversine(t *testing.T) {
	// Bilbao Abando → Casco Viejo, roughly 1 km apart.
	d := Haversine(43.2614, -2.9253, 43.2590, -2.9230)
	if d < 200 || d > 1500 {
		t.Errorf("Haversine = %f, want between 200 and 1500 m", d)
	}
	if got := Haversine(10, 10, 10, 10); got != 0 {
		t.Errorf("Haversine(same) = %f, want 0", got)
	}
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("flat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m(0, 0, 0, 0.001); math.Abs(got-71.5) > 1e-6 {
		t.Errorf("flat metric = %f", got)
	}

	m, err = ParseMetric("Haversine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m(0, 0, 0, 0.001); math.Abs(got-111.19) > 0.1 {
		t.Errorf("haversine metric = %f", got)
	}

	if _, err := ParseMetric("vincenty"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestStepLength(t *testing.T) {
	if got := StepLength(FlatEarth, 1, 1, 10, 1, 1, 25); got != 15 {
		t.Errorf("vertical step = %f, want 15", got)
	}
	if got := StepLength(FlatEarth, 1, 1, 25, 1, 1, 10); got != 15 {
		t.Errorf("descending step = %f, want 15", got)
	}
	// Horizontal moves ignore the altitude delta.
	got := StepLength(FlatEarth, 0, 0, 10, 0, 0.001, 20)
	if math.Abs(got-71.5) > 1e-6 {
		t.Errorf("horizontal step = %f, want 71.5", got)
	}
}
