package server

import (
	"chirp/internal/middleware"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUserRequest is the body of POST /api/user.
type CreateUserRequest struct {
	Name string `json:"name"`
}

// ProfileResponse wraps a profile view.
type ProfileResponse struct {
	Result bool                 `json:"result"`
	User   *service.ProfileView `json:"user"`
}

// CreateUser handles POST /api/user
// @Summary Create user
// @Description Register a user with a unique name.
// @Tags users
// @Accept json
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param request body CreateUserRequest true "User"
// @Success 200 {object} models.UserSummary
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /user [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.CreateUser(c.UserContext(), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user.Summary())
}

// GetMyProfile handles GET /api/users/me
// @Summary Current actor profile
// @Description Profile of the acting user with both follow lists.
// @Tags users
// @Produce json
// @Param user_name query string false "Acting user name"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.ProfileByName(c.UserContext(), middleware.ActorName(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ProfileResponse{Result: true, User: profile})
}

// GetUserProfile handles GET /api/users/:id
// @Summary User profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.ProfileByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ProfileResponse{Result: true, User: profile})
}

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow user
// @Tags users
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "User ID"
// @Param user_name query string false "Acting user name"
// @Success 201 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), middleware.ActorName(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusCreated)
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow user
// @Tags users
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "User ID"
// @Param user_name query string false "Acting user name"
// @Success 202 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), middleware.ActorName(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusAccepted)
}
