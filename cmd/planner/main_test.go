package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"path/filepath"
	"testing"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
)

var towerArgs = []string{
	"--lat1=43.3", "--lon1=-2.9",
	"--lat2=43.3", "--lon2=-2.899",
	"--alt-start=10", "--alt-end=30",
	"--h-increment=20", "--v-increment=10",
	"--metric=flat", "--max-waypoints=99",
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	if err := run(towerArgs, &out, io.Discard); err != nil {
		t.Fatal(err)
	}
	var res domain.FlightPathResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Waypoints) != 12 || res.Layers != 3 {
		t.Errorf("expected 12 waypoints over 3 layers, got %d over %d", len(res.Waypoints), res.Layers)
	}
}

func TestRun_GeoJSON(t *testing.T) {
	var out bytes.Buffer
	if err := run(append(towerArgs, "--geojson", "--name=tower"), &out, io.Discard); err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(out.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 13 {
		t.Errorf("expected line plus 12 points, got %s with %d features", fc.Type, len(fc.Features))
	}
}

func TestRun_OptionsFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	data := `{"coord1":{"lat":43.3,"lon":-2.9},"coord2":{"lat":43.3,"lon":-2.899},
		"alt_start":10,"alt_end":30,"h_increment":20,"v_increment":10}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run([]string{"-f", path, "--alt-end=10", "--metric=flat"}, &out, io.Discard); err != nil {
		t.Fatal(err)
	}
	var res domain.FlightPathResult
	json.Unmarshal(out.Bytes(), &res)
	if res.Layers != 1 {
		t.Errorf("expected the flag to override alt_end, got %d layers", res.Layers)
	}
}

func TestRun_ValidationError(t *testing.T) {
	args := append([]string{}, towerArgs...)
	args = append(args, "--v-increment=0")
	err := run(args, &bytes.Buffer{}, io.Discard)
	var verr *flightpath.ValidationError
	if !errors.As(err, &verr) || verr.Field != "v_increment" {
		t.Fatalf("expected v_increment validation error, got %v", err)
	}
}

func TestRun_BadMetric(t *testing.T) {
	if err := run(append(towerArgs, "--metric=manhattan"), &bytes.Buffer{}, io.Discard); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestRun_ReportsIgnoredConfig(t *testing.T) {
	t.Setenv("SURVEY_BUILDER_DISTANCE_METRIC", "manhattan")

	var out, diag bytes.Buffer
	if err := run(towerArgs, &out, &diag); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diag.String(), "configuration ignored") || !strings.Contains(diag.String(), "distance_metric") {
		t.Errorf("expected config warning, got %q", diag.String())
	}
}

func TestRun_TruncationWarning(t *testing.T) {
	args := append(append([]string{}, towerArgs...), "--max-waypoints=5")

	var out, diag bytes.Buffer
	if err := run(args, &out, &diag); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diag.String(), "path truncated") {
		t.Errorf("expected truncation warning, got %q", diag.String())
	}
	if strings.Contains(out.String(), "truncated by") {
		t.Error("diagnostics leaked into stdout")
	}
}
