package rest

import (
	"errors"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/server/devwallets"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) putProfile(c *fiber.Ctx) error {
	id := pathParam(c, "userId")
	if id == "" {
		return writeMessage(c, fiber.StatusBadRequest, "missing id")
	}
	if _, err := devwallets.ValidateProfile(c.Body()); err != nil {
		return writeMessage(c, fiber.StatusBadRequest, "body must be a JSON object")
	}

	if err := s.wallets.PutProfile(c.UserContext(), id, c.Body()); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	data, err := s.wallets.GetProfile(c.UserContext(), pathParam(c, "userId"))
	if err != nil {
		return s.writeError(c, err)
	}
	return sendJSON(c, data)
}

func (s *Server) headProfile(c *fiber.Ctx) error {
	ok, err := s.wallets.HeadProfile(c.UserContext(), pathParam(c, "userId"))
	if err != nil {
		status, _ := statusFor(err)
		return c.SendStatus(status)
	}
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) deleteProfile(c *fiber.Ctx) error {
	if err := s.wallets.DeleteProfile(c.UserContext(), pathParam(c, "userId")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getHistory(c *fiber.Ctx) error {
	data, err := s.wallets.GetHistory(c.UserContext(), pathParam(c, "userId"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return sendJSON(c, []byte("[]"))
		}
		return s.writeError(c, err)
	}
	return sendJSON(c, data)
}

func (s *Server) putHistory(c *fiber.Ctx) error {
	id := pathParam(c, "userId")
	if id == "" {
		return writeMessage(c, fiber.StatusBadRequest, "missing id")
	}
	if _, err := devwallets.ValidateHistory(c.Body()); err != nil {
		return writeMessage(c, fiber.StatusBadRequest, "body must be a JSON array")
	}

	if err := s.wallets.PutHistory(c.UserContext(), id, c.Body()); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sendJSON(c *fiber.Ctx, data []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(data)
}
