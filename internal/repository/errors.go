package repository

import (
	"errors"
	"strings"

	"chirp/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isForeignKeyError checks if a DB error is a foreign key violation.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "23503")
}

// wrapWriteError maps a driver error from an insert/update into the AppError taxonomy.
func wrapWriteError(err error, duplicateMsg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintError(err):
		return models.NewConstraintError(duplicateMsg, err)
	case isForeignKeyError(err):
		return models.NewConstraintError("Referenced record does not exist", err)
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
}

// wrapReadError maps gorm.ErrRecordNotFound to a NotFound AppError.
func wrapReadError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
