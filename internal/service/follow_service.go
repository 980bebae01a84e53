package service

import (
	"context"

	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"
)

type FollowService struct {
	uow    repository.UnitOfWork
	flags  *featureflags.Manager
	events notifications.Publisher
}

func NewFollowService(uow repository.UnitOfWork, flags *featureflags.Manager, events notifications.Publisher) *FollowService {
	return &FollowService{uow: uow, flags: flags, events: events}
}

// Follow makes the actor follow targetID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, actorName string, targetID uint) (err error) {
	defer func() { recordOutcome("follow_add", err) }()

	var (
		actor   *models.User
		created bool
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		var err error
		if actor, err = resolveFollowTargets(ctx, repos, actorName, targetID); err != nil {
			return err
		}
		created, err = repos.Follows.Add(ctx, actor.ID, targetID)
		return err
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	if created {
		publish(ctx, s.events, notifications.Event{
			Type:    notifications.EventUserFollowed,
			ActorID: actor.ID,
			UserID:  targetID,
		})
	}
	return nil
}

// Unfollow removes the actor -> targetID edge. A missing edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, actorName string, targetID uint) (err error) {
	defer func() { recordOutcome("follow_remove", err) }()

	var (
		actor   *models.User
		removed bool
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		var err error
		if actor, err = resolveFollowTargets(ctx, repos, actorName, targetID); err != nil {
			return err
		}
		removed, err = repos.Follows.Remove(ctx, actor.ID, targetID)
		return err
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	if removed {
		publish(ctx, s.events, notifications.Event{
			Type:    notifications.EventUserUnfollow,
			ActorID: actor.ID,
			UserID:  targetID,
		})
	}
	return nil
}

func resolveFollowTargets(ctx context.Context, repos repository.Repositories, actorName string, targetID uint) (*models.User, error) {
	actor, err := repos.Users.GetByName(ctx, actorName)
	if err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, models.NewValidationError("Users cannot follow themselves")
	}
	if _, err := repos.Users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	return actor, nil
}
