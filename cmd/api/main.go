package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/samirrijal/dronesurvey/internal/adapters/http"
	"github.com/samirrijal/dronesurvey/internal/adapters/memcache"
	natsadapter "github.com/samirrijal/dronesurvey/internal/adapters/nats"
	"github.com/samirrijal/dronesurvey/internal/adapters/postgres"
	"github.com/samirrijal/dronesurvey/internal/adapters/storage"
	"github.com/samirrijal/dronesurvey/internal/adapters/valkey"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
	"github.com/samirrijal/dronesurvey/internal/pkg/config"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
	"github.com/samirrijal/dronesurvey/internal/pkg/telemetry"
	"github.com/samirrijal/dronesurvey/internal/workflows"
)

func main() {
	cfg, err := config.Load("survey-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Content store
	content, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer content.Close()

	// Cache: valkey, or an in-process LRU when valkey is down
	var cache ports.CacheService
	vk, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, using in-process cache", "error", err)
		cache = memcache.New(cfg.Valkey.LocalCacheSize)
	} else {
		defer vk.Close()
		cache = vk
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Temporal
	var runner ports.AnalysisRunner
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		slog.Warn("temporal unavailable, analyses will stay pending", "error", err)
	} else {
		defer tc.Close()
		runner = workflows.NewTemporalRunner(tc, cfg.Temporal.TaskQueue)
	}

	// Builder
	metric, err := geospatial.ParseMetric(cfg.Builder.DistanceMetric)
	if err != nil {
		log.Fatalf("builder: %v", err)
	}
	builder := flightpath.NewBuilder(metric, cfg.Builder.MaxWaypoints)

	// Repos
	planRepo := postgres.NewFlightPlanRepo(db)
	waypointRepo := postgres.NewWaypointRepo(db)
	reconRepo := postgres.NewReconRepo(db)
	resourceRepo := postgres.NewResourceRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)
	infoRepo := postgres.NewAppInfoRepo(db)

	deps := &http.Dependencies{
		FlightPlans: usecases.NewFlightPlanService(planRepo, reconRepo, resourceRepo, content, cache, infoRepo, builder),
		Waypoints:   usecases.NewWaypointService(waypointRepo, planRepo, builder, cache, infoRepo),
		Recons:      usecases.NewReconService(reconRepo, planRepo, resourceRepo, content, infoRepo),
		Resources:   usecases.NewResourceService(resourceRepo, reconRepo, content, events, infoRepo),
		Analyses:    usecases.NewAnalysisService(analysisRepo, reconRepo, resourceRepo, content, runner, events, nil, infoRepo),
		Infos:       usecases.NewAppInfoService(infoRepo),
		NATS:        natsConn,
		DB:          db,
		Cache:       vk,
		Temporal:    tc,
		DocsSpec:    cfg.Server.DocsSpec,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024, // image uploads
		AppName:      "Drone Survey API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "metric", cfg.Builder.DistanceMetric, "max_waypoints", builder.MaxWaypoints())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
