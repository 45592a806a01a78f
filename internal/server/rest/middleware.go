package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case err != nil:
		status, _ = statusFor(err)
	}

	s.logger.Debug(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
		"ip", c.IP(),
	)
	return err
}

// requireToken verifies the bearer token and stores its claims in the
// request locals.
func (s *Server) requireToken(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(c.Get(common.AuthorizationHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
		return writeMessage(c, fiber.StatusUnauthorized, msgMissingToken)
	}

	claims, err := s.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return s.writeError(c, err)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}
