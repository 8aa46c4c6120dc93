package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"fleettrack/internal/config"
	"fleettrack/internal/document"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{}
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDevice(ctx context.Context, device model.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockRepository) GetDeviceByID(ctx context.Context, id uuid.UUID) (model.Device, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Device), args.Error(1)
}

func (m *MockRepository) ListDevices(ctx context.Context, params repository.ListDevicesParams) ([]model.DeviceView, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.DeviceView), args.Error(1)
}

func (m *MockRepository) ListAllDevices(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Device), args.Error(1)
}

func (m *MockRepository) UpdateDevice(ctx context.Context, device model.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockRepository) RetireDevice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CountDevicesByStatus(ctx context.Context) (map[model.DeviceStatus]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[model.DeviceStatus]int), args.Error(1)
}

func (m *MockRepository) CreateEmployee(ctx context.Context, employee model.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockRepository) GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *MockRepository) ListEmployees(ctx context.Context, params repository.ListEmployeesParams) ([]model.Employee, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *MockRepository) UpdateEmployee(ctx context.Context, employee model.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CountEmployees(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateAssignment(ctx context.Context, assignment model.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (model.Assignment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Assignment), args.Error(1)
}

func (m *MockRepository) GetAssignmentDetail(ctx context.Context, id uuid.UUID) (model.AssignmentDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.AssignmentDetail), args.Error(1)
}

func (m *MockRepository) ListAssignments(ctx context.Context, params repository.ListAssignmentsParams) ([]model.AssignmentDetail, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.AssignmentDetail), args.Error(1)
}

func (m *MockRepository) CloseAssignment(ctx context.Context, id uuid.UUID, returnedOn time.Time, notes string) error {
	args := m.Called(ctx, id, returnedOn, notes)
	return args.Error(0)
}

func (m *MockRepository) SetAssignmentDocumentKey(ctx context.Context, id uuid.UUID, kind model.DocumentKind, key string) error {
	args := m.Called(ctx, id, kind, key)
	return args.Error(0)
}

func (m *MockRepository) CreatePlan(ctx context.Context, plan model.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (model.Plan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Plan), args.Error(1)
}

func (m *MockRepository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Plan), args.Error(1)
}

func (m *MockRepository) UpdatePlan(ctx context.Context, plan model.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateUser(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateDelivery(ctx context.Context, assignmentID uuid.UUID, snap document.DeliverySnapshot) (string, error) {
	args := m.Called(ctx, assignmentID, snap)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GenerateReturn(ctx context.Context, assignmentID uuid.UUID, snap document.ReturnSnapshot) (string, error) {
	args := m.Called(ctx, assignmentID, snap)
	return args.String(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, assignmentID uuid.UUID, filename string, content io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, assignmentID, filename, content, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, key, expiration)
	return args.String(0), args.Error(1)
}
