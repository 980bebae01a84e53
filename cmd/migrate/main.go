// Command migrate manages the chirp schema: SQL migrations, automigrate,
// status with per-table row counts, rollback, and a fixture reset for
// non-production databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|reset|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d",
			status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
			len(status.AppliedVersions), len(status.PendingMigrations))
		for _, m := range status.PendingMigrations {
			log.Printf("pending: %06d_%s", m.Version, m.Name)
		}
		if len(status.PendingMigrations) > 0 && status.WillRunSQL {
			log.Println("data: skipped until pending migrations are applied")
			break
		}
		data, err := seed.Inspect(ctx, db)
		if err != nil {
			return fmt.Errorf("data status failed: %w", err)
		}
		log.Printf("data: %s", data)
	case "reset":
		if cfg.IsProduction() {
			return fmt.Errorf("reset refuses to run against %s", cfg.Env)
		}
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("schema apply failed: %w", err)
		}
		if err := seed.ApplyFixtures(ctx, db, true); err != nil {
			return fmt.Errorf("fixture reset failed: %w", err)
		}
		data, err := seed.Inspect(ctx, db)
		if err != nil {
			return fmt.Errorf("data status failed: %w", err)
		}
		log.Printf("reset to fixtures: %s", data)
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: go run ./cmd/migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", version)
	default:
		return usage()
	}

	return nil
}
