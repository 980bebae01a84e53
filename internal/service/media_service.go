package service

import (
	"context"
	"path/filepath"
	"time"

	"chirp/internal/cache"
	"chirp/internal/models"
	"chirp/internal/repository"
)

type MediaService struct {
	mediaRepo repository.MediaRepository
	cache     *cache.Store
	ttl       time.Duration
}

func NewMediaService(mediaRepo repository.MediaRepository, store *cache.Store, ttl time.Duration) *MediaService {
	if ttl <= 0 {
		ttl = cache.DefaultMediaTTL
	}
	return &MediaService{mediaRepo: mediaRepo, cache: store, ttl: ttl}
}

// Upload stores an unlinked blob and returns its id.
func (s *MediaService) Upload(ctx context.Context, fileName string, body []byte) (id uint, err error) {
	defer func() { recordOutcome("media_upload", err) }()

	if fileName != "" {
		fileName = filepath.Base(fileName)
	}
	media := &models.Media{
		FileName: fileName,
		FileBody: body,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return 0, err
	}
	return media.ID, nil
}

// Get returns the raw bytes of media id.
func (s *MediaService) Get(ctx context.Context, id uint) ([]byte, error) {
	return s.cache.Bytes(ctx, cache.MediaKey(id), s.ttl, func() ([]byte, error) {
		media, err := s.mediaRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return media.FileBody, nil
	})
}
