package repository

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	// GetByIDForAuthor only matches tweets owned by authorID.
	GetByIDForAuthor(ctx context.Context, id, authorID uint) (*models.Tweet, error)
	// ListByAuthor returns the author's tweets by id with author, likes and
	// liking users preloaded. Likes are ordered by like id.
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uint) error
}

type tweetRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db, log: observability.NewRepoLogger("tweets")}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "tweets", "Create")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("create", "tweets")()

	if tweet.TweetMediaIDs == nil {
		tweet.TweetMediaIDs = []uint{}
	}
	if err = r.db.WithContext(ctx).Omit("Author", "Likes", "Medias").Create(tweet).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapWriteError(err, "Tweet already exists")
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": tweet.ID, "author_id": tweet.AuthorID})
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	defer observability.TrackQuery("get", "tweets")()

	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		return nil, wrapReadError(err, "Tweet", id)
	}
	return &tweet, nil
}

func (r *tweetRepository) GetByIDForAuthor(ctx context.Context, id, authorID uint) (*models.Tweet, error) {
	defer observability.TrackQuery("get", "tweets")()

	var tweet models.Tweet
	err := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		First(&tweet).Error
	if err != nil {
		return nil, wrapReadError(err, "Tweet", id)
	}
	return &tweet, nil
}

func (r *tweetRepository) ListByAuthor(ctx context.Context, authorID uint) (tweets []models.Tweet, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "tweets", "ListByAuthor")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("list", "tweets")()

	err = r.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("likes.id ASC")
		}).
		Preload("Likes.User").
		Where("author_id = ?", authorID).
		Order("id ASC").
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// Update writes the mutable columns of tweet.
func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	defer observability.TrackQuery("update", "tweets")()

	mediaIDs := tweet.TweetMediaIDs
	if mediaIDs == nil {
		mediaIDs = []uint{}
	}
	res := r.db.WithContext(ctx).
		Model(&models.Tweet{ID: tweet.ID}).
		Updates(map[string]interface{}{
			"tweet_data":      tweet.TweetData,
			"tweet_media_ids": mediaIDs,
		})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return wrapWriteError(res.Error, "Tweet already exists")
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Tweet", tweet.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"id": tweet.ID})
	return nil
}

// Delete removes the tweet; its likes and media are removed by the cascades.
func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "tweets")()

	res := r.db.WithContext(ctx).Delete(&models.Tweet{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Tweet", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"id": id})
	return nil
}
