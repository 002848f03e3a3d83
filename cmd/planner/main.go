// Command planner builds a vertical coverage flight path offline and prints
// it as JSON or GeoJSON.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/pkg/config"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "planner:", err)
		var verr *flightpath.ValidationError
		if errors.As(err, &verr) || errors.Is(err, flightpath.ErrDegenerateInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run writes the result to stdout; diagnostics are logged as text to stderr
// so they never mix with the output.
func run(args []string, stdout, stderr io.Writer) error {
	log := slog.New(logging.NewHandler(stderr, logging.Options{Format: "text"}))

	maxWaypoints, metricName := 99, "flat"
	if cfg, err := config.Load("survey-planner"); err != nil {
		log.Warn("configuration ignored, using built-in defaults", "error", err)
	} else {
		maxWaypoints, metricName = cfg.Builder.MaxWaypoints, cfg.Builder.DistanceMetric
	}

	fs := pflag.NewFlagSet("planner", pflag.ContinueOnError)
	var opts domain.BuilderOptions
	fs.Float64Var(&opts.Coord1.Lat, "lat1", 0, "latitude of the first corridor end")
	fs.Float64Var(&opts.Coord1.Lon, "lon1", 0, "longitude of the first corridor end")
	fs.Float64Var(&opts.Coord2.Lat, "lat2", 0, "latitude of the second corridor end")
	fs.Float64Var(&opts.Coord2.Lon, "lon2", 0, "longitude of the second corridor end")
	fs.Float64Var(&opts.AltStart, "alt-start", 0, "lowest layer altitude in meters")
	fs.Float64Var(&opts.AltEnd, "alt-end", 0, "highest layer altitude in meters")
	fs.Float64Var(&opts.HIncrement, "h-increment", 0, "horizontal spacing between waypoints in meters")
	fs.Float64Var(&opts.VIncrement, "v-increment", 0, "vertical spacing between layers in meters")
	fs.Float64Var(&opts.DRotation, "rotation", 0, "drone heading in degrees")
	fs.Float64Var(&opts.DGimbal.Yaw, "gimbal-yaw", 0, "camera yaw in degrees")
	fs.Float64Var(&opts.DGimbal.Pitch, "gimbal-pitch", 0, "camera pitch in degrees")
	fs.Float64Var(&opts.DGimbal.Roll, "gimbal-roll", 0, "camera roll in degrees")
	optionsFile := fs.StringP("options", "f", "", "read builder options from a JSON file; flags set explicitly override it")
	name := fs.String("name", "flight plan", "plan name written to the GeoJSON properties")
	fs.IntVar(&maxWaypoints, "max-waypoints", maxWaypoints, "waypoint ceiling (2-99)")
	fs.StringVar(&metricName, "metric", metricName, "distance metric: flat or haversine")
	asGeoJSON := fs.Bool("geojson", false, "print a GeoJSON FeatureCollection instead of the build result")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *optionsFile != "" {
		fileOpts, err := readOptions(*optionsFile)
		if err != nil {
			return err
		}
		// Re-parse so explicit flags win over the file.
		opts = fileOpts
		if err := fs.Parse(args); err != nil {
			return err
		}
	}

	if maxWaypoints < 2 || maxWaypoints > domain.MaxWaypointNumber+1 {
		return fmt.Errorf("max-waypoints must be 2-%d, got %d", domain.MaxWaypointNumber+1, maxWaypoints)
	}
	metric, err := geospatial.ParseMetric(metricName)
	if err != nil {
		return err
	}

	res, err := flightpath.NewBuilder(metric, maxWaypoints).Build(opts)
	if err != nil {
		return err
	}
	if res.Truncated {
		log.Warn("path truncated by the waypoint ceiling", "waypoints", len(res.Waypoints), "max_waypoints", maxWaypoints)
	}

	if *asGeoJSON {
		data, err := flightpath.FeatureCollection(*name, res.TotalLength, res.Waypoints).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readOptions(path string) (domain.BuilderOptions, error) {
	var opts domain.BuilderOptions
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}
