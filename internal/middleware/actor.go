package middleware

import (
	"context"
	"strings"

	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	// ActorLocal is the Fiber locals key holding the acting user's name.
	ActorLocal = "actorName"
	// ActorQueryParam names the query parameter that selects the acting user.
	ActorQueryParam = "user_name"
	// APIKeyHeader is the stub credential header.
	APIKeyHeader = "Api-Key"
)

// ActorResolver picks the acting user's name from the user_name query
// parameter and falls back to defaultName. The name is only resolved to a
// user row by the handler that needs it.
func ActorResolver(defaultName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.Query(ActorQueryParam))
		if name == "" {
			name = defaultName
		}
		c.Locals(ActorLocal, name)
		c.SetUserContext(context.WithValue(c.UserContext(), ActorKey, name))
		return c.Next()
	}
}

// ActorName returns the actor name stored by ActorResolver.
func ActorName(c *fiber.Ctx) string {
	name, _ := c.Locals(ActorLocal).(string)
	return name
}

// APIKeyRequired rejects mutating requests without an Api-Key header. The
// value is not checked. Every response echoes the header back.
func APIKeyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key != "" {
			c.Set(APIKeyHeader, key)
		}

		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
			if key == "" {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Api-Key header is required"))
			}
		}
		return c.Next()
	}
}
