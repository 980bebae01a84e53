package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, &config.Config{Env: "test"}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedGraph loads five users, two tweets by sergey, two media blobs (the
// first attached to tweet 1), four follow edges and two likes.
func seedGraph(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{"sergey", "pavel", "oleg", "ivan", "masha"} {
		require.NoError(t, db.Create(&models.User{Name: name}).Error)
	}
	require.NoError(t, db.Create(&models.Tweet{AuthorID: 1, TweetData: "tweet_1", TweetMediaIDs: []uint{1}}).Error)
	require.NoError(t, db.Create(&models.Tweet{AuthorID: 1, TweetData: "tweet_2", TweetMediaIDs: []uint{}}).Error)

	tweetOne := uint(1)
	require.NoError(t, db.Create(&models.Media{FileName: "cat_1.png", FileBody: []byte("cat-1"), TweetID: &tweetOne}).Error)
	require.NoError(t, db.Create(&models.Media{FileName: "cat_2.png", FileBody: []byte("cat-2")}).Error)

	for _, edge := range [][2]uint{{1, 4}, {2, 1}, {3, 1}, {4, 2}} {
		require.NoError(t, db.Create(&models.Follow{FollowerID: edge[0], FolloweeID: edge[1]}).Error)
	}
	require.NoError(t, db.Create(&models.Like{TweetID: 1, UserID: 2}).Error)
	require.NoError(t, db.Create(&models.Like{TweetID: 2, UserID: 1}).Error)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev notifications.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func flagsFor(legacy bool) *featureflags.Manager {
	if legacy {
		return featureflags.NewManager(featureflags.LegacySilentNoop + "=on")
	}
	return featureflags.NewManager("")
}

// userRepoStub lets validation paths run without a database.
type userRepoStub struct {
	createFn    func(context.Context, *models.User) error
	getByIDFn   func(context.Context, uint) (*models.User, error)
	getByNameFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByName(ctx context.Context, name string) (*models.User, error) {
	return s.getByNameFn(ctx, name)
}

var errUnexpectedCall = errors.New("unexpected repository call")

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:    func(context.Context, *models.User) error { return errUnexpectedCall },
		getByIDFn:   func(context.Context, uint) (*models.User, error) { return nil, errUnexpectedCall },
		getByNameFn: func(context.Context, string) (*models.User, error) { return nil, errUnexpectedCall },
	}
}

// stubUnitOfWork runs Do without a transaction over fixed repositories.
type stubUnitOfWork struct {
	repos repository.Repositories
}

func (u *stubUnitOfWork) Repos() repository.Repositories { return u.repos }

func (u *stubUnitOfWork) Do(_ context.Context, fn func(repository.Repositories) error) error {
	return fn(u.repos)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, models.ErrTypeValidation, appErr.Code)
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err), "expected NotFound, got %v", err)
}
