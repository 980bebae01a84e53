package service

import (
	"context"
	"testing"
	"time"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTweetFixture(t *testing.T, legacy bool) (*gorm.DB, *TweetService, *recordingPublisher) {
	t.Helper()
	db := openTestDB(t)
	seedGraph(t, db)
	events := &recordingPublisher{}
	svc := NewTweetService(repository.NewUnitOfWork(db), flagsFor(legacy), events, cache.NewStore(nil))
	return db, svc, events
}

func countTweets(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Tweet{}).Count(&n).Error)
	return n
}

func TestTweetService_CreateTweet_LinksMedia(t *testing.T) {
	db, svc, events := newTweetFixture(t, false)
	ctx := context.Background()

	id, err := svc.CreateTweet(ctx, CreateTweetInput{ActorName: "sergey", TweetData: "tweet_3", MediaIDs: []uint{2}})
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	var media models.Media
	require.NoError(t, db.First(&media, 2).Error)
	require.NotNil(t, media.TweetID)
	assert.Equal(t, uint(3), *media.TweetID)

	var stored models.Tweet
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, []uint{2}, stored.MediaIDs())
	assert.Equal(t, []string{notifications.EventTweetCreated}, events.types())
}

func TestTweetService_CreateTweet_Errors(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		svc := NewTweetService(&stubUnitOfWork{}, flagsFor(false), nil, nil)
		_, err := svc.CreateTweet(context.Background(), CreateTweetInput{ActorName: "sergey", TweetData: " "})
		assertValidationError(t, err)
	})

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()
		db, svc, events := newTweetFixture(t, false)
		_, err := svc.CreateTweet(context.Background(), CreateTweetInput{ActorName: "ghost", TweetData: "boo"})
		assertNotFound(t, err)
		assert.Equal(t, int64(2), countTweets(t, db))
		assert.Empty(t, events.types())
	})

	t.Run("unknown author in legacy mode", func(t *testing.T) {
		t.Parallel()
		db, svc, _ := newTweetFixture(t, true)
		id, err := svc.CreateTweet(context.Background(), CreateTweetInput{ActorName: "ghost", TweetData: "boo"})
		require.NoError(t, err)
		assert.Zero(t, id)
		assert.Equal(t, int64(2), countTweets(t, db))
	})
}

func TestTweetService_DeleteTweet(t *testing.T) {
	t.Run("author deletes and cascades", func(t *testing.T) {
		db, svc, events := newTweetFixture(t, false)
		require.NoError(t, svc.DeleteTweet(context.Background(), "sergey", 1))
		assert.Equal(t, int64(1), countTweets(t, db))

		var likes, medias int64
		require.NoError(t, db.Model(&models.Like{}).Where("tweet_id = ?", 1).Count(&likes).Error)
		require.NoError(t, db.Model(&models.Media{}).Where("tweet_id = ?", 1).Count(&medias).Error)
		assert.Zero(t, likes)
		assert.Zero(t, medias)
		assert.Equal(t, []string{notifications.EventTweetDeleted}, events.types())
	})

	t.Run("non-author leaves tweet untouched", func(t *testing.T) {
		db, svc, _ := newTweetFixture(t, false)
		err := svc.DeleteTweet(context.Background(), "pavel", 1)
		assertNotFound(t, err)
		assert.Equal(t, int64(2), countTweets(t, db))
	})

	t.Run("non-author in legacy mode is a silent no-op", func(t *testing.T) {
		db, svc, events := newTweetFixture(t, true)
		require.NoError(t, svc.DeleteTweet(context.Background(), "pavel", 1))
		assert.Equal(t, int64(2), countTweets(t, db))
		assert.Empty(t, events.types())
	})
}

func TestTweetService_PatchTweet_MergeSemantics(t *testing.T) {
	db, svc, _ := newTweetFixture(t, false)
	ctx := context.Background()

	load := func() models.Tweet {
		var tw models.Tweet
		require.NoError(t, db.First(&tw, 1).Error)
		return tw
	}
	before := load()

	// Omitted fields keep their stored values.
	require.NoError(t, svc.PatchTweet(ctx, PatchTweetInput{ActorName: "sergey", TweetID: 1}))
	after := load()
	assert.Equal(t, before.TweetData, after.TweetData)
	assert.Equal(t, before.MediaIDs(), after.MediaIDs())

	require.NoError(t, svc.PatchTweet(ctx, PatchTweetInput{ActorName: "sergey", TweetID: 1, TweetData: "check"}))
	after = load()
	assert.Equal(t, "check", after.TweetData)
	assert.Equal(t, []uint{1}, after.MediaIDs())

	require.NoError(t, svc.PatchTweet(ctx, PatchTweetInput{ActorName: "sergey", TweetID: 1, MediaIDs: []uint{1, 2}}))
	after = load()
	assert.Equal(t, "check", after.TweetData)
	assert.Equal(t, []uint{1, 2}, after.MediaIDs())

	var media models.Media
	require.NoError(t, db.First(&media, 2).Error)
	require.NotNil(t, media.TweetID)
	assert.Equal(t, uint(1), *media.TweetID)

	assertNotFound(t, svc.PatchTweet(ctx, PatchTweetInput{ActorName: "pavel", TweetID: 1, TweetData: "hijack"}))
	assert.Equal(t, "check", load().TweetData)
}

func TestTweetService_PatchThenDeleteDropsCachedMedia(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := openTestDB(t)
	seedGraph(t, db)
	store := cache.NewStore(rdb)
	medias := NewMediaService(repository.NewMediaRepository(db), store, time.Minute)
	svc := NewTweetService(repository.NewUnitOfWork(db), flagsFor(false), nil, store)
	ctx := context.Background()

	for _, id := range []uint{1, 2} {
		_, err := medias.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, mr.Exists(cache.MediaKey(id)))
	}

	require.NoError(t, svc.PatchTweet(ctx, PatchTweetInput{ActorName: "sergey", TweetID: 1, MediaIDs: []uint{2}}))

	var dropped models.Media
	require.NoError(t, db.First(&dropped, 1).Error)
	assert.Nil(t, dropped.TweetID, "replaced media is detached")

	require.NoError(t, svc.DeleteTweet(ctx, "sergey", 1))

	assert.False(t, mr.Exists(cache.MediaKey(2)))
	_, err := medias.Get(ctx, 2)
	assertNotFound(t, err)

	body, err := medias.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "cat-1", string(body))
	var kept int64
	require.NoError(t, db.Model(&models.Media{}).Where("id = ?", 1).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}
