package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/controllers/models"
	"bagbanter-api/src/infrastructure/log"
)

// ErrorStatus maps a service error to its HTTP status and the message a
// client may see. Storage and unknown failures never leak their detail.
func ErrorStatus(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized, apperrors.Message(err)
	case errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden, apperrors.Message(err)
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound, apperrors.Message(err) + " not found"
	case errors.Is(err, apperrors.ErrInvalidStatus), errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusBadRequest, apperrors.Message(err)
	case errors.Is(err, apperrors.ErrInvalidTransition), errors.Is(err, apperrors.ErrConflict):
		return fiber.StatusConflict, apperrors.Message(err)
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, "Service unavailable, please try again"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// WriteError sends the mapped error as {"message": ...}. Server-side
// failures are logged with their full detail.
func WriteError(c *fiber.Ctx, logger log.Logger, err error) error {
	status, message := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Exception(c.UserContext(), "HTTP request error", err)
	}
	return c.Status(status).JSON(models.MessageResponse{Message: message})
}

// ErrorHandler is the app-wide fallback for errors returned up the chain.
func ErrorHandler(logger log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return WriteError(c, logger, err)
	}
}
