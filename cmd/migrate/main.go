package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/samirrijal/dronesurvey/internal/adapters/postgres"
	"github.com/samirrijal/dronesurvey/internal/pkg/config"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("survey-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.Options{Level: cfg.Log.Level, Format: "text"})

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var files []string
	switch os.Args[1] {
	case "up":
		files, err = migrationFiles("*.up.sql", false)
	case "down":
		files, err = migrationFiles("*.down.sql", true)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}

	if err := runMigrations(ctx, db, files); err != nil {
		log.Fatal(err)
	}
	slog.Info("all migrations applied", "direction", os.Args[1], "files", len(files))
}

// migrationFiles lists migrations in numeric order, reversed for down.
func migrationFiles(pattern string, reverse bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

func runMigrations(ctx context.Context, db *postgres.DB, files []string) error {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		fmt.Printf("OK  %s\n", f)
	}
	return nil
}
