package service

import (
	"context"

	"chirp/internal/cache"
	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/observability"
	"chirp/internal/repository"
	"chirp/internal/validation"
)

type TweetService struct {
	uow    repository.UnitOfWork
	flags  *featureflags.Manager
	events notifications.Publisher
	cache  *cache.Store
}

type CreateTweetInput struct {
	ActorName string
	TweetData string
	MediaIDs  []uint
}

// PatchTweetInput carries a merge patch: empty fields keep the stored value.
type PatchTweetInput struct {
	ActorName string
	TweetID   uint
	TweetData string
	MediaIDs  []uint
}

func NewTweetService(
	uow repository.UnitOfWork,
	flags *featureflags.Manager,
	events notifications.Publisher,
	store *cache.Store,
) *TweetService {
	return &TweetService{
		uow:    uow,
		flags:  flags,
		events: events,
		cache:  store,
	}
}

// CreateTweet stores the tweet and links the referenced media in one
// transaction. It returns the new tweet id, or 0 when legacy no-op mode
// swallowed a missing author; the handler renders that as a null tweet_id.
func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (tweetID uint, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "TweetService", "CreateTweet")
	defer func() { observability.EndSpan(span, err) }()
	defer func() { recordOutcome("tweet_create", err) }()

	if err := validation.ValidateTweetData(in.TweetData); err != nil {
		return 0, models.NewValidationError(err.Error())
	}

	var tweet models.Tweet
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		author, err := repos.Users.GetByName(ctx, in.ActorName)
		if err != nil {
			return err
		}

		tweet = models.Tweet{
			AuthorID:      author.ID,
			TweetData:     in.TweetData,
			TweetMediaIDs: append([]uint{}, in.MediaIDs...),
		}
		if err := repos.Tweets.Create(ctx, &tweet); err != nil {
			return err
		}
		_, err = repos.Medias.LinkToTweet(ctx, in.MediaIDs, tweet.ID)
		return err
	})
	if err != nil {
		return 0, swallowNotFound(s.flags, err)
	}

	publish(ctx, s.events, notifications.Event{
		Type:    notifications.EventTweetCreated,
		ActorID: tweet.AuthorID,
		TweetID: tweet.ID,
	})
	return tweet.ID, nil
}

// DeleteTweet removes a tweet owned by the actor. Tweets owned by someone
// else are reported as not found.
func (s *TweetService) DeleteTweet(ctx context.Context, actorName string, tweetID uint) (err error) {
	defer func() { recordOutcome("tweet_delete", err) }()

	var (
		tweet  *models.Tweet
		linked []uint
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		author, err := repos.Users.GetByName(ctx, actorName)
		if err != nil {
			return err
		}
		tweet, err = repos.Tweets.GetByIDForAuthor(ctx, tweetID, author.ID)
		if err != nil {
			return err
		}
		// The cascade removes whatever points at the tweet, which can differ
		// from the attachment list.
		linked, err = repos.Medias.IDsForTweet(ctx, tweet.ID)
		if err != nil {
			return err
		}
		return repos.Tweets.Delete(ctx, tweet.ID)
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	keys := make([]string, 0, len(linked))
	for _, id := range linked {
		keys = append(keys, cache.MediaKey(id))
	}
	s.cache.Invalidate(ctx, keys...)

	publish(ctx, s.events, notifications.Event{
		Type:    notifications.EventTweetDeleted,
		ActorID: tweet.AuthorID,
		TweetID: tweet.ID,
	})
	return nil
}

// PatchTweet merges in into the stored tweet. A non-empty TweetData or
// MediaIDs replaces the stored value. Replacing MediaIDs links the new media
// and detaches the ones no longer listed.
func (s *TweetService) PatchTweet(ctx context.Context, in PatchTweetInput) (err error) {
	defer func() { recordOutcome("tweet_patch", err) }()

	var tweet *models.Tweet
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		author, err := repos.Users.GetByName(ctx, in.ActorName)
		if err != nil {
			return err
		}
		tweet, err = repos.Tweets.GetByIDForAuthor(ctx, in.TweetID, author.ID)
		if err != nil {
			return err
		}

		if in.TweetData != "" {
			if err := validation.ValidateTweetData(in.TweetData); err != nil {
				return models.NewValidationError(err.Error())
			}
			tweet.TweetData = in.TweetData
		}
		if len(in.MediaIDs) > 0 {
			tweet.TweetMediaIDs = append([]uint{}, in.MediaIDs...)
			if _, err := repos.Medias.UnlinkExcept(ctx, tweet.ID, tweet.MediaIDs()); err != nil {
				return err
			}
			if _, err := repos.Medias.LinkToTweet(ctx, tweet.MediaIDs(), tweet.ID); err != nil {
				return err
			}
		}
		return repos.Tweets.Update(ctx, tweet)
	})
	if err != nil {
		return swallowNotFound(s.flags, err)
	}

	publish(ctx, s.events, notifications.Event{
		Type:    notifications.EventTweetUpdated,
		ActorID: tweet.AuthorID,
		TweetID: tweet.ID,
	})
	return nil
}
