package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type pairingRequest struct {
	Session string `json:"session"`
	Device  string `json:"device"`
	Address string `json:"address"`
}

type pairingResponse struct {
	Connected bool      `json:"connected"`
	Device    string    `json:"device"`
	When      time.Time `json:"when"`
	Address   string    `json:"address,omitempty"`
}

func (s *Server) submitPairing(c *fiber.Ctx) error {
	var req pairingRequest
	if err := c.BodyParser(&req); err != nil || req.Session == "" {
		return writeMessage(c, fiber.StatusBadRequest, "missing session")
	}

	if err := s.pairings.Submit(req.Session, req.Device, req.Address); err != nil {
		return s.writeError(c, err)
	}

	s.logger.Debug(c.UserContext(), "pairing submitted", "session", req.Session)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (s *Server) queryPairing(c *fiber.Ctx) error {
	session := pathParam(c, "*")
	if session == "" {
		return writeMessage(c, fiber.StatusBadRequest, "missing session")
	}

	entry, ok := s.pairings.Query(session)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"connected": false})
	}

	return c.JSON(pairingResponse{
		Connected: entry.Connected,
		Device:    entry.Device,
		When:      entry.When.UTC(),
		Address:   entry.Address,
	})
}
