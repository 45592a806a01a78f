package rest

import (
	"errors"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidPayload     = "Invalid payload"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgMissingToken       = "Missing token"
	msgNotFound           = "Not found"
	msgDBUnavailable      = "Database unavailable"
	msgServerError        = "Server error"
)

type errorResponse struct {
	Message string `json:"message"`
}

// statusFor maps a component error to the HTTP status and the message shown
// to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return fiber.StatusBadRequest, msgInvalidPayload
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.StatusConflict, msgUserExists
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorUnavailable):
		return fiber.StatusServiceUnavailable, msgDBUnavailable
	default:
		return fiber.StatusInternalServerError, msgServerError
	}
}

func writeMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Message: msg})
}

// writeError logs unexpected failures and writes the mapped response.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return writeMessage(c, status, msg)
}

// errorHandler renders errors that escape handlers, including fiber's own
// routing and body-limit errors and recovered panics.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
			return writeMessage(c, fe.Code, msgServerError)
		}
		return writeMessage(c, fe.Code, fe.Message)
	}
	return s.writeError(c, err)
}
