package repository

import (
	"context"
	"time"

	"fleettrack/internal/model"

	"github.com/google/uuid"
)

type ListDevicesParams struct {
	// Search matches brand, model, IMEI, phone number and the name of the
	// employee currently holding the device.
	Search string
	Status *model.DeviceStatus
	Limit  int
	Offset int
}

type ListEmployeesParams struct {
	Search string
	Status *model.EmployeeStatus
	Limit  int
	Offset int
}

type ListAssignmentsParams struct {
	Search     string
	DeviceID   *uuid.UUID
	EmployeeID *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository is the transactional store behind the registries and the
// assignment ledger. State-transition methods (CreateAssignment,
// CloseAssignment, DeleteEmployee) run in a single database transaction and
// re-check their preconditions at write time, so the device-state invariant
// holds even under concurrent callers.
type Repository interface {
	// Devices
	CreateDevice(ctx context.Context, device model.Device) error
	GetDeviceByID(ctx context.Context, id uuid.UUID) (model.Device, error)
	ListDevices(ctx context.Context, params ListDevicesParams) ([]model.DeviceView, error)
	ListAllDevices(ctx context.Context) ([]model.Device, error)
	UpdateDevice(ctx context.Context, device model.Device) error
	RetireDevice(ctx context.Context, id uuid.UUID) error
	CountDevicesByStatus(ctx context.Context) (map[model.DeviceStatus]int, error)

	// Employees
	CreateEmployee(ctx context.Context, employee model.Employee) error
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListEmployees(ctx context.Context, params ListEmployeesParams) ([]model.Employee, error)
	UpdateEmployee(ctx context.Context, employee model.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	CountEmployees(ctx context.Context) (int, error)

	// Assignments
	CreateAssignment(ctx context.Context, assignment model.Assignment) error
	GetAssignmentByID(ctx context.Context, id uuid.UUID) (model.Assignment, error)
	GetAssignmentDetail(ctx context.Context, id uuid.UUID) (model.AssignmentDetail, error)
	ListAssignments(ctx context.Context, params ListAssignmentsParams) ([]model.AssignmentDetail, error)
	CloseAssignment(ctx context.Context, id uuid.UUID, returnedOn time.Time, notes string) error
	SetAssignmentDocumentKey(ctx context.Context, id uuid.UUID, kind model.DocumentKind, key string) error

	// Plans
	CreatePlan(ctx context.Context, plan model.Plan) error
	GetPlanByID(ctx context.Context, id uuid.UUID) (model.Plan, error)
	ListPlans(ctx context.Context) ([]model.Plan, error)
	UpdatePlan(ctx context.Context, plan model.Plan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error

	// Users
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	HealthCheck(ctx context.Context) error
}
