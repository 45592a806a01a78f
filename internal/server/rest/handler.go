package rest

import (
	"net/url"
	"time"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return writeMessage(c, fiber.StatusBadRequest, msgInvalidPayload)
	}
	if !s.users.Available() {
		return writeMessage(c, fiber.StatusServiceUnavailable, msgDBUnavailable)
	}

	res, err := s.users.Register(c.UserContext(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	s.logger.Info(c.UserContext(), "Registered", "username", req.Username, "id", res.User.ID)
	return c.Status(fiber.StatusCreated).JSON(newAuthResponse(res))
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Login == "" || req.Password == "" {
		return writeMessage(c, fiber.StatusBadRequest, msgInvalidPayload)
	}
	if !s.users.Available() {
		return writeMessage(c, fiber.StatusServiceUnavailable, msgDBUnavailable)
	}

	res, err := s.users.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newAuthResponse(res))
}

func (s *Server) me(c *fiber.Ctx) error {
	claims := claimsFrom(c)
	if claims == nil {
		return s.writeError(c, common.ErrInvalidToken)
	}

	resp := meResponse{ID: claims.Subject, Username: claims.Username}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return c.JSON(resp)
}

func newAuthResponse(res *services.AuthResult) authResponse {
	return authResponse{
		Token: res.Token,
		User: userResponse{
			ID:       res.User.ID,
			Name:     res.User.Name,
			Username: res.User.UserName,
		},
	}
}

// missingParam answers requests that omit a required path segment.
func (s *Server) missingParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return writeMessage(c, fiber.StatusBadRequest, "missing "+name)
	}
}

// pathParam returns the decoded value of a route parameter.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
