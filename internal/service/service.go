// Package service holds the domain operations behind the HTTP handlers.
package service

import (
	"context"
	"fmt"

	"chirp/internal/cache"
	"chirp/internal/featureflags"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/observability"
	"chirp/internal/repository"
)

// MediaURL is the public path a media attachment is served from.
func MediaURL(mediaID uint) string {
	return fmt.Sprintf("/api/medias/%d", mediaID)
}

// legacySilentNoop reports whether missing actors and targets should turn into
// successful no-ops instead of NotFound errors.
func legacySilentNoop(flags *featureflags.Manager) bool {
	return flags.Enabled(featureflags.LegacySilentNoop, 0)
}

// swallowNotFound drops NotFound errors when legacy no-op mode is on.
func swallowNotFound(flags *featureflags.Manager, err error) error {
	if err != nil && models.IsNotFound(err) && legacySilentNoop(flags) {
		return nil
	}
	return err
}

func publish(ctx context.Context, events notifications.Publisher, ev notifications.Event) {
	if events == nil {
		return
	}
	events.Publish(ctx, ev)
}

func recordOutcome(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = models.ErrorCode(err)
	}
	observability.RecordMutation(operation, outcome)
}

// lookupActor resolves a user by name through the cache for read-only paths.
func lookupActor(ctx context.Context, store *cache.Store, users repository.UserRepository, name string) (*models.User, error) {
	var user models.User
	err := store.Aside(ctx, cache.UserNameKey(name), &user, cache.UserTTL, func() error {
		found, err := users.GetByName(ctx, name)
		if err != nil {
			return err
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
