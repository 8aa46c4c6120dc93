package api

import (
	"fleettrack/internal/middleware"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.auth.CreateUser(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.auth.UpdateUser(c.Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

type permissionRequest struct {
	Action string `json:"action"`
}

// GrantPermission records an individual OpenFGA permission for a user,
// widening what their role already allows. A no-op when OpenFGA is disabled.
func (h *Handler) GrantPermission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	action, ok := service.ParseAction(req.Action)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action"})
	}

	user, err := h.auth.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.authz.Grant(c.Context(), user, action); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) RevokePermission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	action, ok := service.ParseAction(c.Params("action"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action"})
	}

	user, err := h.auth.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.authz.Revoke(c.Context(), user, action); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if caller, ok := middleware.CurrentUser(c); ok && caller.ID == id {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "cannot delete your own account"})
	}

	if err := h.auth.DeleteUser(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
