package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error types reported in the error_type field of every failed response.
const (
	ErrTypeNotFound            = "NotFound"
	ErrTypeConstraintViolation = "ConstraintViolation"
	ErrTypeValidation          = "ValidationError"
	ErrTypeUnauthorized        = "Unauthorized"
	ErrTypeRateLimited         = "RateLimited"
	ErrTypeUnhandled           = "UnhandledException"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Result       bool   `json:"result"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrTypeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewConstraintError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrTypeConstraintViolation,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    ErrTypeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrTypeUnauthorized,
		Message: message,
	}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{
		Code:    ErrTypeRateLimited,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrTypeUnhandled,
		Message: "Internal server error",
		Err:     err,
	}
}

// ErrorCode returns the taxonomy code of err, or UnhandledException when err
// is not an AppError.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrTypeUnhandled
}

// IsNotFound reports whether err is a NotFound AppError.
func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrTypeNotFound
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch ErrorCode(err) {
	case ErrTypeNotFound:
		return fiber.StatusNotFound
	case ErrTypeConstraintViolation:
		return fiber.StatusConflict
	case ErrTypeValidation:
		return fiber.StatusUnprocessableEntity
	case ErrTypeUnauthorized:
		return fiber.StatusUnauthorized
	case ErrTypeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard {result:false, error_type, error_message} body.
// Internal error details never leave the process.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{ErrorType: ErrTypeUnhandled, ErrorMessage: "Internal server error"}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.ErrorType = appErr.Code
		response.ErrorMessage = appErr.Message
	} else if status < fiber.StatusInternalServerError && err != nil {
		response.ErrorMessage = err.Error()
	}

	return c.Status(status).JSON(response)
}
