// Package bootstrap wires the database and Redis connections a process needs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"
	"chirp/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedFixtures loads the embedded reference dataset into an empty database.
	SeedFixtures bool
}

// InitRuntime connects to DB and Redis and optionally loads fixtures.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client disables caching and events.
	r := cache.NewClient(cfg.RedisURL)

	if err := Prepare(context.Background(), cfg, db, opts); err != nil {
		return nil, nil, err
	}

	return db, r, nil
}

// Prepare runs the data steps of InitRuntime against an open database.
func Prepare(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) error {
	if opts.SeedFixtures {
		empty, err := isEmpty(ctx, db)
		if err != nil {
			return fmt.Errorf("check for existing data: %w", err)
		}
		if empty {
			if err := seed.ApplyFixtures(ctx, db, false); err != nil {
				return fmt.Errorf("failed to load fixtures: %w", err)
			}
		} else {
			log.Println("⚠️  Database already has users, skipping fixtures")
		}
	}

	if err := ensureDefaultActor(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to bootstrap default actor: %w", err)
	}
	return nil
}

func isEmpty(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// ensureDefaultActor creates the fallback actor in development so requests
// without user_name have someone to act as.
func ensureDefaultActor(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	name := cfg.ActorName()
	var user models.User
	err := db.WithContext(ctx).Where("name = ?", name).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.WithContext(ctx).Create(&models.User{Name: name}).Error; err != nil {
			return err
		}
		log.Printf("✓ Created default actor %q", name)
		return nil
	default:
		return err
	}
}
