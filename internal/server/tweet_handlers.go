package server

import (
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTweetRequest is the body of POST /api/tweets.
type CreateTweetRequest struct {
	TweetData     *string `json:"tweet_data"`
	TweetMediaIDs []uint  `json:"tweet_media_ids"`
}

// PatchTweetRequest is the merge-patch body of PATCH /api/tweets/:id.
type PatchTweetRequest struct {
	TweetData     string `json:"tweet_data"`
	TweetMediaIDs []uint `json:"tweet_media_ids"`
}

// CreateTweetResponse is returned by POST /api/tweets. TweetID is null when
// legacy no-op mode skipped the write.
type CreateTweetResponse struct {
	Result  bool  `json:"result"`
	TweetID *uint `json:"tweet_id"`
}

// TimelineResponse is returned by GET /api/tweets.
type TimelineResponse struct {
	Result bool                `json:"result"`
	Tweets []service.TweetView `json:"tweets"`
}

// GetTweets handles GET /api/tweets
// @Summary Actor timeline
// @Description Tweets authored by the acting user, oldest first.
// @Tags tweets
// @Produce json
// @Param user_name query string false "Acting user name"
// @Success 200 {object} TimelineResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets [get]
func (s *Server) GetTweets(c *fiber.Ctx) error {
	tweets, err := s.feedService.Timeline(c.UserContext(), middleware.ActorName(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(TimelineResponse{Result: true, Tweets: tweets})
}

// CreateTweet handles POST /api/tweets
// @Summary Create tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param user_name query string false "Acting user name"
// @Param request body CreateTweetRequest true "Tweet"
// @Success 201 {object} CreateTweetResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /tweets [post]
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req CreateTweetRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if req.TweetData == nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("tweet_data is required"))
	}

	tweetID, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		ActorName: middleware.ActorName(c),
		TweetData: *req.TweetData,
		MediaIDs:  req.TweetMediaIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := CreateTweetResponse{Result: true}
	if tweetID != 0 {
		resp.TweetID = &tweetID
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteTweet handles DELETE /api/tweets/:id
// @Summary Delete tweet
// @Description Only the author can delete a tweet; other tweets are reported as not found.
// @Tags tweets
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "Tweet ID"
// @Param user_name query string false "Acting user name"
// @Success 202 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{id} [delete]
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tweetService.DeleteTweet(c.UserContext(), middleware.ActorName(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusAccepted)
}

// PatchTweet handles PATCH /api/tweets/:id
// @Summary Update tweet
// @Description Merge patch: omitted or empty fields keep their stored values.
// @Tags tweets
// @Accept json
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "Tweet ID"
// @Param user_name query string false "Acting user name"
// @Param request body PatchTweetRequest true "Patch"
// @Success 201 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /tweets/{id} [patch]
func (s *Server) PatchTweet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req PatchTweetRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	err = s.tweetService.PatchTweet(c.UserContext(), service.PatchTweetInput{
		ActorName: middleware.ActorName(c),
		TweetID:   id,
		TweetData: req.TweetData,
		MediaIDs:  req.TweetMediaIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusCreated)
}

// LikeTweet handles POST /api/tweets/:id/likes
// @Summary Like tweet
// @Tags likes
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "Tweet ID"
// @Param user_name query string false "Acting user name"
// @Success 201 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{id}/likes [post]
func (s *Server) LikeTweet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.LikeTweet(c.UserContext(), middleware.ActorName(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusCreated)
}

// UnlikeTweet handles DELETE /api/tweets/:id/likes
// @Summary Unlike tweet
// @Tags likes
// @Produce json
// @Param Api-Key header string true "API key (presence only)"
// @Param id path int true "Tweet ID"
// @Param user_name query string false "Acting user name"
// @Success 202 {object} ResultResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{id}/likes [delete]
func (s *Server) UnlikeTweet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.likeService.UnlikeTweet(c.UserContext(), middleware.ActorName(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return respondResult(c, fiber.StatusAccepted)
}
