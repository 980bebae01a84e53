package repository

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	// Add records the like and reports whether a new row was written.
	Add(ctx context.Context, tweetID, userID uint) (bool, error)
	// Remove deletes the like and reports whether a row existed.
	Remove(ctx context.Context, tweetID, userID uint) (bool, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

func (r *likeRepository) Add(ctx context.Context, tweetID, userID uint) (bool, error) {
	defer observability.TrackQuery("create", "likes")()

	like := models.Like{TweetID: tweetID, UserID: userID}
	res := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tweet_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "create")
		return false, wrapWriteError(res.Error, "Tweet already liked")
	}
	if res.RowsAffected > 0 {
		r.log.LogCreate(ctx, map[string]interface{}{"tweet_id": tweetID, "user_id": userID})
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, tweetID, userID uint) (bool, error) {
	defer observability.TrackQuery("delete", "likes")()

	res := r.db.WithContext(ctx).
		Where("tweet_id = ? AND user_id = ?", tweetID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"tweet_id": tweetID, "user_id": userID})
	}
	return res.RowsAffected > 0, nil
}
