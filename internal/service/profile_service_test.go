package service

import (
	"context"
	"testing"

	"chirp/internal/models"
	"chirp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Views(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewProfileService(repository.NewUnitOfWork(db), flagsFor(false), nil)
	ctx := context.Background()

	me, err := svc.ProfileByName(ctx, "sergey")
	require.NoError(t, err)
	assert.Equal(t, &ProfileView{
		ID:        1,
		Name:      "sergey",
		Followers: []models.UserSummary{{ID: 4, Name: "ivan"}},
		Following: []models.UserSummary{{ID: 2, Name: "pavel"}, {ID: 3, Name: "oleg"}},
	}, me)

	masha, err := svc.ProfileByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "masha", masha.Name)
	assert.NotNil(t, masha.Followers)
	assert.Empty(t, masha.Followers)
	assert.Empty(t, masha.Following)
}

func TestProfileService_Following_IsInverseOfFollowEdges(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	svc := NewProfileService(repository.NewUnitOfWork(db), flagsFor(false), nil)

	var edges []models.Follow
	require.NoError(t, db.Order("id ASC").Find(&edges).Error)

	for id := uint(1); id <= 5; id++ {
		view, err := svc.ProfileByID(context.Background(), id)
		require.NoError(t, err)

		var want []uint
		for _, e := range edges {
			if e.FolloweeID == id {
				want = append(want, e.FollowerID)
			}
		}
		var got []uint
		for _, u := range view.Following {
			got = append(got, u.ID)
		}
		assert.Equal(t, want, got, "following of user %d", id)
	}
}

func TestProfileService_NotFound(t *testing.T) {
	db := openTestDB(t)
	seedGraph(t, db)
	uow := repository.NewUnitOfWork(db)

	_, err := NewProfileService(uow, flagsFor(false), nil).ProfileByID(context.Background(), 99)
	assertNotFound(t, err)

	view, err := NewProfileService(uow, flagsFor(true), nil).ProfileByName(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Zero(t, view.ID)
	assert.Empty(t, view.Followers)
	assert.Empty(t, view.Following)
}
