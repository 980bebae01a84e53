package repository

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "users", "Create")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("create", "users")()

	if err = r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapWriteError(err, "User name already taken")
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": user.ID, "name": user.Name})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapReadError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	defer observability.TrackQuery("get_by_name", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, wrapReadError(err, "User", name)
	}
	return &user, nil
}
