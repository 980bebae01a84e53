package server

import (
	"io"

	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// MediaUploadResponse is returned by POST /api/medias.
type MediaUploadResponse struct {
	Result  bool `json:"result"`
	MediaID uint `json:"media_id"`
}

// UploadMedia handles POST /api/medias
// @Summary Upload media
// @Description Stores the uploaded file unlinked; reference its id from a tweet to attach it.
// @Tags medias
// @Accept multipart/form-data
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param file formData file true "Media file"
// @Success 201 {object} MediaUploadResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /medias [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("file is required"))
	}

	file, err := header.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	body, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	id, err := s.mediaService.Upload(c.UserContext(), header.Filename, body)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(MediaUploadResponse{Result: true, MediaID: id})
}

// GetMedia handles GET /api/medias/:id
// @Summary Fetch media
// @Description Raw media bytes, always served with the configured content type.
// @Tags medias
// @Produce octet-stream
// @Param id path int true "Media ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /medias/{id} [get]
func (s *Server) GetMedia(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	body, err := s.mediaService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, s.config.MediaType())
	return c.Status(fiber.StatusOK).Send(body)
}
