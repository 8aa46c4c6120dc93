package api

import (
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreatePlan(c *fiber.Ctx) error {
	var req service.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	plan, err := h.plans.Create(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *Handler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.plans.List(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (h *Handler) GetPlan(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.plans.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(plan)
}

func (h *Handler) UpdatePlan(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	plan, err := h.plans.Update(c.Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(plan)
}

func (h *Handler) DeletePlan(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.plans.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
