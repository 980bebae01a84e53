// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the per-entity repositories bound to one database session.
type Repositories struct {
	Users   UserRepository
	Tweets  TweetRepository
	Likes   LikeRepository
	Follows FollowRepository
	Medias  MediaRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:   NewUserRepository(db),
		Tweets:  NewTweetRepository(db),
		Likes:   NewLikeRepository(db),
		Follows: NewFollowRepository(db),
		Medias:  NewMediaRepository(db),
	}
}

// UnitOfWork hands out repositories and runs groups of writes atomically.
type UnitOfWork interface {
	Repos() Repositories
	// Do runs fn with repositories bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Do(ctx context.Context, fn func(Repositories) error) error
}

type gormUnitOfWork struct {
	db    *gorm.DB
	repos Repositories
}

// NewUnitOfWork returns a UnitOfWork over the given pool.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db, repos: NewRepositories(db)}
}

func (u *gormUnitOfWork) Repos() Repositories {
	return u.repos
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
