package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AppError is the error shape every public operation resolves to before it
// crosses the API boundary.
type AppError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"` // field-level validation details
	Err        error    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string, fieldErrors ...string) *AppError {
	return &AppError{StatusCode: fiber.StatusBadRequest, Message: message, Errors: fieldErrors}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{StatusCode: fiber.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: fiber.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: fiber.StatusNotFound, Message: message}
}

// NewConflictError surfaces duplicates (unique catalog names, repeated badge
// awards, duplicate assignments). The legacy API used 400 for these, so the
// status stays a 400.
func NewConflictError(message string) *AppError {
	return &AppError{StatusCode: fiber.StatusBadRequest, Message: message}
}

func NewServerError(message string, err error) *AppError {
	return &AppError{StatusCode: fiber.StatusInternalServerError, Message: message, Err: err}
}

// ErrorHandler maps errors to the {success:false, message} envelope. Wire it
// as fiber.Config.ErrorHandler so no raw error crosses the API boundary.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"success": false,
			"message": appErr.Message,
		}
		if len(appErr.Errors) > 0 {
			body["errors"] = appErr.Errors
		}
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(appErr.Err).Error(appErr.Message)
			if appErr.Err != nil {
				body["error"] = appErr.Err.Error()
			}
		}
		return c.Status(appErr.StatusCode).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	log.WithError(err).Error("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Server error",
		"error":   err.Error(),
	})
}
