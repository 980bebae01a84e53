package service

import (
	"context"
	"testing"
	"time"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaService_UploadAndGet(t *testing.T) {
	db := openTestDB(t)
	svc := NewMediaService(repository.NewMediaRepository(db), nil, 0)
	ctx := context.Background()

	id, err := svc.Upload(ctx, "../../etc/cat.png", []byte{0x52, 0x49, 0x46, 0x46})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	var stored models.Media
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, "cat.png", stored.FileName)
	assert.Nil(t, stored.TweetID)

	body, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x52, 0x49, 0x46, 0x46}, body)

	_, err = svc.Get(ctx, 404)
	assertNotFound(t, err)
}

func TestMediaService_GetUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	db := openTestDB(t)
	svc := NewMediaService(repository.NewMediaRepository(db), cache.NewStore(rdb), time.Minute)
	ctx := context.Background()

	id, err := svc.Upload(ctx, "cat.png", []byte("meow"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.MediaKey(id)))
	assert.Equal(t, time.Minute, mr.TTL(cache.MediaKey(id)))

	// Served from Redis once cached.
	require.NoError(t, db.Delete(&models.Media{}, id).Error)
	body, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), body)
}
