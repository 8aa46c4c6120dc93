// Package api exposes the inventory over JSON HTTP. Handlers parse and
// authorize, services decide, the repository persists.
package api

import (
	"log/slog"
	"time"

	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

type Handler struct {
	store       *session.Store
	repo        repository.Repository
	auth        *service.AuthService
	authz       *service.AuthorizationService
	devices     *service.DeviceService
	employees   *service.EmployeeService
	assignments *service.AssignmentService
	plans       *service.PlanService
	reports     *service.ReportService
	logger      *slog.Logger
}

func NewHandler(
	store *session.Store,
	repo repository.Repository,
	auth *service.AuthService,
	authz *service.AuthorizationService,
	devices *service.DeviceService,
	employees *service.EmployeeService,
	assignments *service.AssignmentService,
	plans *service.PlanService,
	reports *service.ReportService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		store:       store,
		repo:        repo,
		auth:        auth,
		authz:       authz,
		devices:     devices,
		employees:   employees,
		assignments: assignments,
		plans:       plans,
		reports:     reports,
		logger:      logger.With("component", "api"),
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// parseAsOf reads the optional as_of query parameter, defaulting to now.
// Accepted formats are RFC 3339 and plain dates.
func parseAsOf(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid as_of date")
	}
	return t, nil
}
