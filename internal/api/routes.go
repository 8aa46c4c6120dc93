package api

import (
	"fleettrack/internal/middleware"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// RegisterRoutes wires the HTTP surface. Everything under /api requires a
// session; write routes additionally require the matching action.
func RegisterRoutes(
	app *fiber.App,
	h *Handler,
	store *session.Store,
	repo repository.Repository,
	authz *service.AuthorizationService,
) {
	app.Get("/health", h.Health)

	auth := app.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)

	api := app.Group("/api", middleware.AuthenticatedSession(store, repo))

	write := middleware.RequireAction(authz, service.ActionWrite)
	retire := middleware.RequireAction(authz, service.ActionRetire)
	manageUsers := middleware.RequireAction(authz, service.ActionManageUsers)

	api.Get("/me", h.Me)

	devices := api.Group("/devices")
	devices.Get("/", h.ListDevices)
	devices.Post("/", write, h.CreateDevice)
	devices.Get("/available", h.ListAvailableDevices)
	devices.Get("/:id", h.GetDevice)
	devices.Get("/:id/depreciation", h.DeviceDepreciation)
	devices.Patch("/:id", write, h.UpdateDevice)
	devices.Post("/:id/retire", retire, h.RetireDevice)
	devices.Get("/:id/assignments", h.DeviceHistory)

	employees := api.Group("/employees")
	employees.Get("/", h.ListEmployees)
	employees.Post("/", write, h.CreateEmployee)
	employees.Get("/:id", h.GetEmployee)
	employees.Patch("/:id", write, h.UpdateEmployee)
	employees.Delete("/:id", write, h.DeleteEmployee)
	employees.Get("/:id/assignments", h.EmployeeAssignments)

	assignments := api.Group("/assignments")
	assignments.Get("/", h.ListAssignments)
	assignments.Post("/", write, h.CreateAssignment)
	assignments.Get("/:id", h.GetAssignment)
	assignments.Post("/:id/return", write, h.CloseAssignment)
	assignments.Get("/:id/documents/:kind", h.AssignmentDocument)

	plans := api.Group("/plans")
	plans.Get("/", h.ListPlans)
	plans.Post("/", write, h.CreatePlan)
	plans.Get("/:id", h.GetPlan)
	plans.Put("/:id", write, h.UpdatePlan)
	plans.Delete("/:id", write, h.DeletePlan)

	reports := api.Group("/reports")
	reports.Get("/dashboard", h.Dashboard)
	reports.Get("/devices-by-status", h.DevicesByStatus)
	reports.Get("/valuation", h.Valuation)

	users := api.Group("/users", manageUsers)
	users.Get("/", h.ListUsers)
	users.Post("/", h.CreateUser)
	users.Get("/:id", h.GetUser)
	users.Patch("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
	users.Post("/:id/permissions", h.GrantPermission)
	users.Delete("/:id/permissions/:action", h.RevokePermission)
}
