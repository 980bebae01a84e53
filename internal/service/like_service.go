package service

import (
	"context"

	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"
)

type LikeService struct {
	uow    repository.UnitOfWork
	flags  *featureflags.Manager
	events notifications.Publisher
}

func NewLikeService(uow repository.UnitOfWork, flags *featureflags.Manager, events notifications.Publisher) *LikeService {
	return &LikeService{uow: uow, flags: flags, events: events}
}

// LikeTweet records the actor's like. Liking twice leaves a single like.
func (s *LikeService) LikeTweet(ctx context.Context, actorName string, tweetID uint) (err error) {
	defer func() { recordOutcome("like_add", err) }()

	var (
		actor   *models.User
		tweet   *models.Tweet
		created bool
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		var err error
		if actor, tweet, err = resolveLikeTargets(ctx, repos, actorName, tweetID); err != nil {
			return err
		}
		created, err = repos.Likes.Add(ctx, tweet.ID, actor.ID)
		return err
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	if created {
		publish(ctx, s.events, notifications.Event{
			Type:    notifications.EventTweetLiked,
			ActorID: actor.ID,
			TweetID: tweet.ID,
			UserID:  tweet.AuthorID,
		})
	}
	return nil
}

// UnlikeTweet removes the actor's like. A missing like is not an error.
func (s *LikeService) UnlikeTweet(ctx context.Context, actorName string, tweetID uint) (err error) {
	defer func() { recordOutcome("like_remove", err) }()

	var (
		actor   *models.User
		tweet   *models.Tweet
		removed bool
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		var err error
		if actor, tweet, err = resolveLikeTargets(ctx, repos, actorName, tweetID); err != nil {
			return err
		}
		removed, err = repos.Likes.Remove(ctx, tweet.ID, actor.ID)
		return err
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	if removed {
		publish(ctx, s.events, notifications.Event{
			Type:    notifications.EventTweetUnliked,
			ActorID: actor.ID,
			TweetID: tweet.ID,
		})
	}
	return nil
}

func resolveLikeTargets(ctx context.Context, repos repository.Repositories, actorName string, tweetID uint) (*models.User, *models.Tweet, error) {
	actor, err := repos.Users.GetByName(ctx, actorName)
	if err != nil {
		return nil, nil, err
	}
	tweet, err := repos.Tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, tweet, nil
}
