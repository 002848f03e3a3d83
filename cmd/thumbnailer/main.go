package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/dronesurvey/internal/adapters/nats"
	"github.com/samirrijal/dronesurvey/internal/adapters/storage"
	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
	"github.com/samirrijal/dronesurvey/internal/pkg/config"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("survey-thumbnailer")
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

	content, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer content.Close()

	// Thumbnails only touch the content store.
	resources := usecases.NewResourceService(nil, nil, content, nil, nil)

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeResourceUploaded(ctx, func(ctx context.Context, evt *domain.ResourceUploadedEvent) error {
		err := resources.GenerateThumbnail(ctx, evt.Filename)
		if errors.Is(err, domain.ErrNotFound) {
			// Content was deleted before we got to it.
			slog.Info("skip thumbnail of removed image", "resource_id", evt.ResourceID, "filename", evt.Filename)
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("thumbnail generated", "resource_id", evt.ResourceID, "filename", evt.Filename)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("thumbnailer started", "nats", cfg.NATS.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("thumbnailer stopping", "signal", sig.String())
}
