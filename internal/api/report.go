package api

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	dashboard, err := h.reports.Dashboard(c.Context(), asOf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(dashboard)
}

func (h *Handler) DevicesByStatus(c *fiber.Ctx) error {
	counts, err := h.reports.DevicesByStatus(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"devices_by_status": counts})
}

func (h *Handler) Valuation(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	lines, err := h.reports.Valuation(c.Context(), asOf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"as_of": asOf, "devices": lines})
}
