package api

import (
	"fleettrack/internal/middleware"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	// Issue a fresh session ID for the authenticated user.
	if err := sess.Regenerate(); err != nil {
		return respondError(c, h.logger, err)
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(user)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := sess.Destroy(); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}
	return c.JSON(user)
}
