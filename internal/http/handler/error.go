package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tripdocs/internal/http/middleware"
	"tripdocs/internal/service"
	"tripdocs/internal/storage"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal details. code is the machine-readable short code, message the
// human-readable safe text.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// mapServiceError translates service sentinels into HTTP responses. Share
// link failures all collapse to the same message so a caller cannot probe
// which tokens exist.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidShareLink):
		return writeError(c, fiber.StatusForbidden, "INVALID_SHARE_LINK", service.ErrInvalidShareLink.Error())
	case errors.Is(err, service.ErrBookingNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrShareLinkNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no active share link")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrExtensionNotAllowed):
		return writeError(c, fiber.StatusBadRequest, "EXTENSION_NOT_ALLOWED", "file type not allowed")
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the size limit")
	case errors.Is(err, service.ErrQuotaExceeded):
		return writeError(c, fiber.StatusBadRequest, "QUOTA_EXCEEDED", "document limit reached for this booking")
	case errors.Is(err, service.ErrNoDocuments):
		return writeError(c, fiber.StatusNotFound, "NO_DOCUMENTS", "no documents available")
	case errors.Is(err, service.ErrInvalidBooking):
		return writeError(c, fiber.StatusBadRequest, "INVALID_BOOKING", "invalid booking data")
	case errors.Is(err, storage.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "document storage is unavailable")
	case errors.Is(err, storage.ErrObjectNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler is the Fiber global error handler; it standardizes responses
// for errors that escape the handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
