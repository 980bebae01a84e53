package service

import (
	"context"

	"chirp/internal/cache"
	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/observability"
	"chirp/internal/repository"
)

// LikeView is one like as rendered in a timeline entry.
type LikeView struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

// TweetView is one timeline entry.
type TweetView struct {
	ID          uint               `json:"id"`
	Content     string             `json:"content"`
	Attachments []string           `json:"attachments"`
	Author      models.UserSummary `json:"author"`
	Likes       []LikeView         `json:"likes"`
}

type FeedService struct {
	uow   repository.UnitOfWork
	flags *featureflags.Manager
	cache *cache.Store
}

func NewFeedService(uow repository.UnitOfWork, flags *featureflags.Manager, store *cache.Store) *FeedService {
	return &FeedService{uow: uow, flags: flags, cache: store}
}

// Timeline lists the actor's own tweets by ascending id.
func (s *FeedService) Timeline(ctx context.Context, actorName string) (views []TweetView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "Timeline")
	defer func() { observability.EndSpan(span, err) }()

	repos := s.uow.Repos()
	actor, err := lookupActor(ctx, s.cache, repos.Users, actorName)
	if err != nil {
		if swallowNotFound(s.flags, err) == nil {
			return []TweetView{}, nil
		}
		return nil, err
	}

	tweets, err := repos.Tweets.ListByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	views = make([]TweetView, 0, len(tweets))
	for i := range tweets {
		views = append(views, newTweetView(&tweets[i]))
	}
	return views, nil
}

func newTweetView(t *models.Tweet) TweetView {
	view := TweetView{
		ID:          t.ID,
		Content:     t.TweetData,
		Attachments: make([]string, 0, len(t.TweetMediaIDs)),
		Author:      t.Author.Summary(),
		Likes:       make([]LikeView, 0, len(t.Likes)),
	}
	for _, id := range t.MediaIDs() {
		view.Attachments = append(view.Attachments, MediaURL(id))
	}
	for _, like := range t.Likes {
		view.Likes = append(view.Likes, LikeView{UserID: like.UserID, Name: like.User.Name})
	}
	return view
}
