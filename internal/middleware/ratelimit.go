package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// CheckRateLimit counts one hit for id against resource and reports whether
// it is still within limit for the current window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit limits mutating requests to limit per window, keyed by actor name
// or remote IP. Reads pass through untouched.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead || c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		id := "ip:" + c.IP()
		if name := ActorName(c); name != "" {
			id = "actor:" + name
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					ErrorType:    models.ErrTypeUnhandled,
					ErrorMessage: "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitError("rate limit exceeded"))
		}
		return c.Next()
	}
}
