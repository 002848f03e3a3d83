package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "survey", DBName: "dronesurvey"},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Temporal: TemporalConfig{TaskQueue: "survey-analysis"},
		Storage:  StorageConfig{Backend: "local", Dir: "data"},
		Builder:  BuilderConfig{MaxWaypoints: 99, DistanceMetric: "flat"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Storage.Backend = "s3"
	cfg.Builder.MaxWaypoints = 150
	cfg.Builder.DistanceMetric = "vincenty"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "storage.backend", "builder.max_waypoints", "builder.distance_metric"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_GCSNeedsBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = StorageConfig{Backend: "gcs"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "storage.bucket") {
		t.Errorf("expected storage.bucket error, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SURVEY_BUILDER_MAX_WAYPOINTS", "50")
	t.Setenv("SURVEY_BUILDER_DISTANCE_METRIC", "haversine")
	t.Setenv("SURVEY_DATABASE_HOST", "db.internal")

	cfg, err := Load("survey-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Builder.MaxWaypoints != 50 {
		t.Errorf("max_waypoints = %d, want 50", cfg.Builder.MaxWaypoints)
	}
	if cfg.Builder.DistanceMetric != "haversine" {
		t.Errorf("distance_metric = %q", cfg.Builder.DistanceMetric)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q", cfg.Database.Host)
	}
	if cfg.Telemetry.ServiceName != "survey-test" {
		t.Errorf("service name = %q", cfg.Telemetry.ServiceName)
	}
}
