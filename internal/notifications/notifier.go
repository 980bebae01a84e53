// Package notifications publishes domain events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chirp/internal/middleware"
	"chirp/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types.
const (
	EventTweetCreated = "tweet.created"
	EventTweetUpdated = "tweet.updated"
	EventTweetDeleted = "tweet.deleted"
	EventTweetLiked   = "tweet.liked"
	EventTweetUnliked = "tweet.unliked"
	EventUserFollowed = "user.followed"
	EventUserUnfollow = "user.unfollowed"
)

// BroadcastChannel receives every event.
const BroadcastChannel = "chirp:events"

// Event is the JSON payload published for each mutation.
type Event struct {
	Type    string    `json:"type"`
	ActorID uint      `json:"actor_id"`
	TweetID uint      `json:"tweet_id,omitempty"`
	UserID  uint      `json:"user_id,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel is the per-user channel for events that concern that user.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Publish sends ev to the broadcast channel and, when it targets a user, to
// that user's channel. Failures are logged and swallowed.
func (n *Notifier) Publish(ctx context.Context, ev Event) {
	if n == nil || n.rdb == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	channels := []string{BroadcastChannel}
	if ev.UserID != 0 && ev.UserID != ev.ActorID {
		channels = append(channels, UserChannel(ev.UserID))
	}
	for _, ch := range channels {
		if err := n.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			middleware.Logger.WarnContext(ctx, "event publish failed",
				slog.String("event", ev.Type),
				slog.String("channel", ch),
				slog.String("error", err.Error()),
			)
			return
		}
	}
	observability.EventsPublished.WithLabelValues(ev.Type).Inc()
}
