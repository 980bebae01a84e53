package repository

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
)

// MediaRepository defines persistence operations for uploaded blobs.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	// LinkToTweet points every existing media row in ids at tweetID and
	// returns how many rows were touched. Unknown ids are ignored.
	LinkToTweet(ctx context.Context, ids []uint, tweetID uint) (int64, error)
	// UnlinkExcept detaches every media row of tweetID whose id is not in
	// keep. The rows survive as unlinked uploads.
	UnlinkExcept(ctx context.Context, tweetID uint, keep []uint) (int64, error)
	// IDsForTweet lists the ids of the media rows pointing at tweetID.
	IDsForTweet(ctx context.Context, tweetID uint) ([]uint, error)
}

type mediaRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db, log: observability.NewRepoLogger("medias")}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "medias", "Create")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("create", "medias")()

	if media.FileBody == nil {
		media.FileBody = []byte{}
	}
	if err = r.db.WithContext(ctx).Create(media).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapWriteError(err, "Media already exists")
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": media.ID, "file_name": media.FileName, "size": len(media.FileBody)})
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	defer observability.TrackQuery("get", "medias")()

	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		return nil, wrapReadError(err, "Media", id)
	}
	return &media, nil
}

func (r *mediaRepository) LinkToTweet(ctx context.Context, ids []uint, tweetID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	defer observability.TrackQuery("update", "medias")()

	res := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id IN ?", ids).
		Update("tweet_id", tweetID)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return 0, wrapWriteError(res.Error, "Media already linked")
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"tweet_id": tweetID, "media_ids": ids, "rows": res.RowsAffected})
	return res.RowsAffected, nil
}

func (r *mediaRepository) UnlinkExcept(ctx context.Context, tweetID uint, keep []uint) (int64, error) {
	defer observability.TrackQuery("update", "medias")()

	q := r.db.WithContext(ctx).Model(&models.Media{}).Where("tweet_id = ?", tweetID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	res := q.Update("tweet_id", nil)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.LogUpdate(ctx, map[string]interface{}{"tweet_id": tweetID, "kept": keep, "unlinked": res.RowsAffected})
	}
	return res.RowsAffected, nil
}

func (r *mediaRepository) IDsForTweet(ctx context.Context, tweetID uint) ([]uint, error) {
	defer observability.TrackQuery("list", "medias")()

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("tweet_id = ?", tweetID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
