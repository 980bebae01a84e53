// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers         int
	NumTweets        int
	FollowsPerUser   int
	LikesPerTweet    int
	ShouldClean      bool
	DeterministicKey int64
}

// Seed populates the database with fake users, tweets, follows and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d tweets...", opts.NumUsers, opts.NumTweets)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts.DeterministicKey)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	tweets, err := f.CreateTweets(users, opts.NumTweets)
	if err != nil {
		return fmt.Errorf("failed to create tweets: %w", err)
	}
	log.Printf("✓ %d tweets created", len(tweets))

	follows, err := f.CreateFollowGraph(users, opts.FollowsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	likes, err := f.CreateLikes(users, tweets, opts.LikesPerTweet)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likes)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// clearData removes every row. PostgreSQL also restarts the id sequences.
func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE likes, follows, medias, tweets, users RESTART IDENTITY CASCADE;`).Error
	}

	for _, model := range []interface{}{&models.Like{}, &models.Follow{}, &models.Media{}, &models.Tweet{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
