package service

import (
	"context"

	"chirp/internal/cache"
	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/repository"
)

// ProfileView is a user with both sides of their follow graph.
//
// Followers lists the users the profile owner follows and Following lists
// the users who follow the owner. The names are kept for wire compatibility
// with existing clients.
type ProfileView struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	Followers []models.UserSummary `json:"followers"`
	Following []models.UserSummary `json:"following"`
}

type ProfileService struct {
	uow   repository.UnitOfWork
	flags *featureflags.Manager
	cache *cache.Store
}

func NewProfileService(uow repository.UnitOfWork, flags *featureflags.Manager, store *cache.Store) *ProfileService {
	return &ProfileService{uow: uow, flags: flags, cache: store}
}

// ProfileByName renders the profile of the user with the given name.
func (s *ProfileService) ProfileByName(ctx context.Context, name string) (*ProfileView, error) {
	repos := s.uow.Repos()
	user, err := lookupActor(ctx, s.cache, repos.Users, name)
	if err != nil {
		return s.emptyOrErr(err)
	}
	return s.render(ctx, repos, user)
}

// ProfileByID renders the profile of user id.
func (s *ProfileService) ProfileByID(ctx context.Context, id uint) (*ProfileView, error) {
	repos := s.uow.Repos()
	user, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return s.emptyOrErr(err)
	}
	return s.render(ctx, repos, user)
}

func (s *ProfileService) emptyOrErr(err error) (*ProfileView, error) {
	if swallowNotFound(s.flags, err) == nil {
		return &ProfileView{
			Followers: []models.UserSummary{},
			Following: []models.UserSummary{},
		}, nil
	}
	return nil, err
}

func (s *ProfileService) render(ctx context.Context, repos repository.Repositories, user *models.User) (*ProfileView, error) {
	followees, err := repos.Follows.ListFollowees(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := repos.Follows.ListFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		ID:        user.ID,
		Name:      user.Name,
		Followers: followees,
		Following: followers,
	}, nil
}
