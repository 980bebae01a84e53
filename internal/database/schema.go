package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chirp/internal/config"
	"chirp/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes accepted by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do against db.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeHybrid
	}
	return mode
}

// schemaPolicy decides which schema steps run. The embedded SQL is written for
// PostgreSQL, so other dialects always use AutoMigrate.
func schemaPolicy(cfg *config.Config, dialect string) (runSQL bool, runAuto bool, err error) {
	mode := normalizedSchemaMode(cfg)
	prodLike := isProdLikeEnv(cfg.Env)

	switch mode {
	case SchemaModeSQL, SchemaModeHybrid:
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateUnsafe {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}

	if dialect != "postgres" {
		return false, true, nil
	}

	switch mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		return false, true, nil
	default:
		return true, !prodLike, nil
	}
}

// ApplySchema runs SQL migrations and/or AutoMigrate according to the configured mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg, db.Dialector.Name())
	if err != nil {
		return err
	}

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if runAuto {
		middleware.Logger.Info("Running GORM AutoMigrate",
			slog.String("mode", normalizedSchemaMode(cfg)),
			slog.String("env", cfg.Env),
			slog.String("dialect", db.Dialector.Name()),
		)
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return nil
}

// GetSchemaStatus reports the schema policy and pending SQL migrations.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg, db.Dialector.Name())
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
	}
	if !runSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied
	status.PendingMigrations = pendingMigrations(applied, GetMigrations())
	return status, nil
}
