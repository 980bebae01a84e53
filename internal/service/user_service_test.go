package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chirp/internal/models"
	"chirp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser_Validation(t *testing.T) {
	t.Parallel()

	for name, input := range map[string]string{
		"empty":           "",
		"whitespace only": "   ",
		"too long":        strings.Repeat("x", 65),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := NewUserService(noopUserRepo())
			_, err := svc.CreateUser(context.Background(), input)
			assertValidationError(t, err)
		})
	}
}

func TestUserService_CreateUser_TrimsName(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var saved *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 6
		saved = u
		return nil
	}

	user, err := NewUserService(repo).CreateUser(context.Background(), "  slava ")
	require.NoError(t, err)
	assert.Equal(t, uint(6), user.ID)
	assert.Equal(t, "slava", user.Name)
	require.NotNil(t, saved)
	assert.Equal(t, "slava", saved.Name)
}

func TestUserService_CreateUser_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("insert failed")
	repo := noopUserRepo()
	repo.createFn = func(context.Context, *models.User) error { return repoErr }

	_, err := NewUserService(repo).CreateUser(context.Background(), "slava")
	assert.ErrorIs(t, err, repoErr)
}

func TestUserService_CreateUser_AssignsNextIDAndRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "slava")
	require.NoError(t, err)
	assert.Equal(t, uint(6), user.ID)

	_, err = svc.CreateUser(ctx, "slava")
	require.Error(t, err)
	assert.Equal(t, models.ErrTypeConstraintViolation, models.ErrorCode(err))

	found, err := repository.NewUserRepository(db).GetByName(ctx, "slava")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
