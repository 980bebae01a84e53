// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "chirp/docs" // swagger docs
	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/featureflags"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/notifications"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	notifier       *notifications.Notifier
	cache          *cache.Store

	userService    *service.UserService
	tweetService   *service.TweetService
	likeService    *service.LikeService
	followService  *service.FollowService
	feedService    *service.FeedService
	profileService *service.ProfileService
	mediaService   *service.MediaService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB/Redis; tests pass their own.
// redisClient may be nil; caching and event publishing are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	uow := repository.NewUnitOfWork(db)
	repos := uow.Repos()
	store := cache.NewStore(redisClient)
	flags := featureflags.NewManager(cfg.FeatureFlags)
	notifier := notifications.NewNotifier(redisClient)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("chirp-api"),
		featureFlags:   flags,
		notifier:       notifier,
		cache:          store,

		userService:    service.NewUserService(repos.Users),
		tweetService:   service.NewTweetService(uow, flags, notifier, store),
		likeService:    service.NewLikeService(uow, flags, notifier),
		followService:  service.NewFollowService(uow, flags, notifier),
		feedService:    service.NewFeedService(uow, flags, store),
		profileService: service.NewProfileService(uow, flags, store),
		mediaService:   service.NewMediaService(repos.Medias, store, cfg.MediaCacheTTL()),
	}

	return server, nil
}

// NewApp builds the Fiber app with the JSON error handler and body limit.
func (s *Server) NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "Chirp API",
		BodyLimit:    s.config.BodyLimitBytes(),
		ErrorHandler: s.errorHandler,
	})
}

// errorHandler turns stray handler errors into the standard error body.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Route", c.Path()))
		case fiberErr.Code == fiber.StatusMethodNotAllowed:
			return models.RespondWithError(c, fiber.StatusMethodNotAllowed,
				models.NewValidationError(fiberErr.Message))
		case fiberErr.Code == fiber.StatusRequestEntityTooLarge:
			return models.RespondWithError(c, fiber.StatusRequestEntityTooLarge,
				models.NewValidationError("Request body too large"))
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate request id and trace id
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.APIKeyHeader,
		ExposeHeaders: middleware.APIKeyHeader,
		MaxAge:        86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Use(middleware.APIKeyRequired(), middleware.ActorResolver(s.config.ActorName()))
	if s.redis != nil && s.config.RateLimitEnabled() {
		api.Use(middleware.RateLimit(s.redis, s.config.RateLimitPerMinute, time.Minute, middleware.FailOpen, "api"))
	}

	api.Post("/user", s.CreateUser)

	// Define specific /me and /:id/:resource routes BEFORE generic /:id route
	users := api.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Post("/:id/follow", s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id", s.GetUserProfile)

	tweets := api.Group("/tweets")
	tweets.Get("/", s.GetTweets)
	tweets.Post("/", s.CreateTweet)
	tweets.Post("/:id/likes", s.LikeTweet)
	tweets.Delete("/:id/likes", s.UnlikeTweet)
	tweets.Patch("/:id", s.PatchTweet)
	tweets.Delete("/:id", s.DeleteTweet)

	medias := api.Group("/medias")
	medias.Post("/", s.UploadMedia)
	medias.Get("/:id", s.GetMedia)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so an
// unconfigured Redis does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"flags": s.featureFlags.Snapshot(0),
		"time":  time.Now(),
	})
}

// Shutdown closes the database pool and the Redis client.
func (s *Server) Shutdown(_ context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
