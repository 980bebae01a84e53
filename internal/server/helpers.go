package server

import (
	"errors"

	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// ResultResponse is the body of every successful mutation without a payload.
type ResultResponse struct {
	Result bool `json:"result"`
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 422 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into dest. On failure it writes a 422 JSON
// response and returns errResponseWritten.
func (s *Server) parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// mapServiceError picks the HTTP status for an error returned by a service.
func mapServiceError(err error) int {
	return models.StatusFor(err)
}

func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(err), err)
}

func respondResult(c *fiber.Ctx, status int) error {
	return c.Status(status).JSON(ResultResponse{Result: true})
}
