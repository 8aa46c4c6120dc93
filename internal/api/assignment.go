package api

import (
	"fleettrack/internal/middleware"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) CreateAssignment(c *fiber.Ctx) error {
	var req service.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// The authenticated caller is the responsible party printed on the
	// delivery act; body fields only override the displayed name and title.
	if caller, ok := middleware.CurrentUser(c); ok {
		if req.ResponsibleName == "" {
			req.ResponsibleName = caller.Username
		}
		if req.ResponsibleTitle == "" {
			req.ResponsibleTitle = string(caller.Role)
		}
	}

	detail, err := h.assignments.Create(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(detail)
}

func (h *Handler) ListAssignments(c *fiber.Ctx) error {
	params := repository.ListAssignmentsParams{
		Search:     c.Query("search"),
		ActiveOnly: c.QueryBool("active", false),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	}
	if raw := c.Query("device_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid device_id filter"})
		}
		params.DeviceID = &id
	}
	if raw := c.Query("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid employee_id filter"})
		}
		params.EmployeeID = &id
	}

	assignments, err := h.assignments.List(c.Context(), params)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"assignments": assignments})
}

func (h *Handler) GetAssignment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.assignments.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(detail)
}

func (h *Handler) CloseAssignment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.CloseAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	detail, err := h.assignments.Close(c.Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(detail)
}

// AssignmentDocument returns the act's storage key, generating the document
// on first request.
func (h *Handler) AssignmentDocument(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	kind := model.DocumentKind(c.Params("kind"))
	if kind != model.DocumentKindDelivery && kind != model.DocumentKindReturn {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown document kind"})
	}

	caller, _ := middleware.CurrentUser(c)
	key, err := h.assignments.Document(c.Context(), id, kind, caller)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"kind": kind, "key": key})
}
