package repository

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	// Add records followerID -> followeeID and reports whether a new row was written.
	Add(ctx context.Context, followerID, followeeID uint) (bool, error)
	// Remove deletes followerID -> followeeID and reports whether a row existed.
	Remove(ctx context.Context, followerID, followeeID uint) (bool, error)
	// ListFollowees returns the users followerID follows, oldest edge first.
	ListFollowees(ctx context.Context, followerID uint) ([]models.UserSummary, error)
	// ListFollowers returns the users following followeeID, oldest edge first.
	ListFollowers(ctx context.Context, followeeID uint) ([]models.UserSummary, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Add(ctx context.Context, followerID, followeeID uint) (bool, error) {
	defer observability.TrackQuery("create", "follows")()

	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).
		Omit("Follower", "Followee").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
			DoNothing: true,
		}).
		Create(&follow)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "create")
		return false, wrapWriteError(res.Error, "Already following")
	}
	if res.RowsAffected > 0 {
		r.log.LogCreate(ctx, map[string]interface{}{"follower_id": followerID, "followee_id": followeeID})
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Remove(ctx context.Context, followerID, followeeID uint) (bool, error) {
	defer observability.TrackQuery("delete", "follows")()

	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"follower_id": followerID, "followee_id": followeeID})
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) ListFollowees(ctx context.Context, followerID uint) ([]models.UserSummary, error) {
	return r.listJoined(ctx, "follows.followee_id", "follows.follower_id", followerID)
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID uint) ([]models.UserSummary, error) {
	return r.listJoined(ctx, "follows.follower_id", "follows.followee_id", followeeID)
}

// listJoined resolves the user on the joinCol side of every edge whose filterCol matches id.
func (r *followRepository) listJoined(ctx context.Context, joinCol, filterCol string, id uint) ([]models.UserSummary, error) {
	defer observability.TrackQuery("list", "follows")()

	out := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table("follows").
		Select("users.id, users.name").
		Joins("JOIN users ON users.id = "+joinCol).
		Where(filterCol+" = ?", id).
		Order("follows.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
