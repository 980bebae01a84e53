package service

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser registers a new user. Names are trimmed and must be unique.
func (s *UserService) CreateUser(ctx context.Context, name string) (user *models.User, err error) {
	defer func() { recordOutcome("user_create", err) }()

	normalized, err := validation.NormalizeUserName(name)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user = &models.User{Name: normalized}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
