package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/dronesurvey/internal/adapters/nats"
	"github.com/samirrijal/dronesurvey/internal/adapters/postgres"
	"github.com/samirrijal/dronesurvey/internal/adapters/storage"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
	"github.com/samirrijal/dronesurvey/internal/pkg/config"
	"github.com/samirrijal/dronesurvey/internal/pkg/imaging"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/telemetry"
	"github.com/samirrijal/dronesurvey/internal/workflows"
)

func main() {
	cfg, err := config.Load("survey-analyzer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	content, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer content.Close()

	// Progress events feed the /ws relay; analyses still run without them.
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, progress will not be broadcast", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	svc := usecases.NewAnalysisService(
		postgres.NewAnalysisRepo(db),
		postgres.NewReconRepo(db),
		postgres.NewResourceRepo(db),
		content,
		nil, // this process executes analyses, it never starts them
		events,
		imaging.NewComparator(0),
		postgres.NewAppInfoRepo(db),
	)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.AnalysisWorkflow)
	w.RegisterActivity(&workflows.AnalysisActivities{Steps: svc})

	slog.Info("analyzer worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
