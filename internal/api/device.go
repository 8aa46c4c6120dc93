package api

import (
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateDevice(c *fiber.Ctx) error {
	var req service.CreateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	device, err := h.devices.Create(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

func (h *Handler) ListDevices(c *fiber.Ctx) error {
	params := repository.ListDevicesParams{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := model.DeviceStatus(raw)
		switch status {
		case model.DeviceStatusAvailable, model.DeviceStatusAssigned, model.DeviceStatusRetired:
			params.Status = &status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
		}
	}

	devices, err := h.devices.List(c.Context(), params)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"devices": devices})
}

func (h *Handler) ListAvailableDevices(c *fiber.Ctx) error {
	devices, err := h.devices.ListAvailable(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"devices": devices})
}

func (h *Handler) GetDevice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	device, err := h.devices.Get(c.Context(), id, asOf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(device)
}

// DeviceDepreciation returns only the book-value figures for a device,
// valued at the optional as_of date.
func (h *Handler) DeviceDepreciation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	device, err := h.devices.Get(c.Context(), id, asOf)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"as_of": asOf, "depreciation": device.Depreciation})
}

func (h *Handler) UpdateDevice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	device, err := h.devices.Update(c.Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(device)
}

func (h *Handler) RetireDevice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	device, err := h.devices.Retire(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(device)
}

func (h *Handler) DeviceHistory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	history, err := h.assignments.History(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"assignments": history})
}
