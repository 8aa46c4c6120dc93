package api

import (
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateEmployee(c *fiber.Ctx) error {
	var req service.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	employee, err := h.employees.Create(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

func (h *Handler) ListEmployees(c *fiber.Ctx) error {
	params := repository.ListEmployeesParams{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := model.EmployeeStatus(raw)
		switch status {
		case model.EmployeeStatusActive, model.EmployeeStatusInactive:
			params.Status = &status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
		}
	}

	employees, err := h.employees.List(c.Context(), params)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"employees": employees})
}

func (h *Handler) GetEmployee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	employee, err := h.employees.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(employee)
}

func (h *Handler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	employee, err := h.employees.Update(c.Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(employee)
}

func (h *Handler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.employees.Delete(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) EmployeeAssignments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	assignments, err := h.employees.Assignments(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"assignments": assignments})
}
