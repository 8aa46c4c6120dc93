package service_test

import (
	"context"
	"testing"
	"time"

	"fleettrack/internal/config"
	"fleettrack/internal/document"
	"fleettrack/internal/model"
	"fleettrack/internal/monitoring"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAssignmentService(t *testing.T, repo *MockRepository, generator *MockGenerator) *service.AssignmentService {
	return newAssignmentServiceWithStorage(t, repo, generator, &MockStorage{})
}

func newAssignmentServiceWithStorage(t *testing.T, repo *MockRepository, generator *MockGenerator, store *MockStorage) *service.AssignmentService {
	t.Helper()
	telemetry, err := monitoring.NewOpenTelemetry(config.TelemetryConfig{})
	require.NoError(t, err)
	return service.NewAssignmentService(repo, generator, store, telemetry, validator.New(), testLogger(), time.Second)
}

func availableDevice() model.Device {
	return model.Device{
		ID:                uuid.New(),
		Brand:             "Samsung",
		Model:             "Galaxy S23",
		InitialCost:       450,
		PurchaseDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PhysicalCondition: model.ConditionNew,
		Status:            model.DeviceStatusAvailable,
	}
}

func activeEmployee() model.Employee {
	return model.Employee{
		ID:       uuid.New(),
		FullName: "Maria Lopez",
		JobTitle: "Field Supervisor",
		Status:   model.EmployeeStatusActive,
	}
}

func TestAssignmentService_Create(t *testing.T) {
	device := availableDevice()
	employee := activeEmployee()

	tests := []struct {
		name       string
		request    service.CreateAssignmentRequest
		setupMocks func(*MockRepository, *MockGenerator)
		wantErr    error
	}{
		{
			name: "successful_create",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
				repo.On("GetEmployeeByID", mock.Anything, employee.ID).Return(employee, nil)
				repo.On("CreateAssignment", mock.Anything, mock.AnythingOfType("model.Assignment")).Return(nil)
				gen.On("GenerateDelivery", mock.Anything, mock.Anything, mock.Anything).Return("acts/key.pdf", nil).Maybe()
				repo.On("SetAssignmentDocumentKey", mock.Anything, mock.Anything, model.DocumentKindDelivery, "acts/key.pdf").Return(nil).Maybe()
			},
		},
		{
			name: "device_not_available",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				assigned := device
				assigned.Status = model.DeviceStatusAssigned
				repo.On("GetDeviceByID", mock.Anything, device.ID).Return(assigned, nil)
			},
			wantErr: model.PreconditionError{Reason: "device is not available"},
		},
		{
			name: "retired_device",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				retired := device
				retired.Status = model.DeviceStatusRetired
				repo.On("GetDeviceByID", mock.Anything, device.ID).Return(retired, nil)
			},
			wantErr: model.PreconditionError{Reason: "device is not available"},
		},
		{
			name: "inactive_employee",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				inactive := employee
				inactive.Status = model.EmployeeStatusInactive
				repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
				repo.On("GetEmployeeByID", mock.Anything, employee.ID).Return(inactive, nil)
			},
			wantErr: model.PreconditionError{Reason: "employee is not active"},
		},
		{
			name: "device_not_found",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				repo.On("GetDeviceByID", mock.Anything, device.ID).
					Return(model.Device{}, model.NotFoundError{Entity: "device", ID: device.ID.String()})
			},
			wantErr: model.NotFoundError{Entity: "device", ID: device.ID.String()},
		},
		{
			name: "lost_race_at_write_time",
			request: service.CreateAssignmentRequest{
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
			},
			setupMocks: func(repo *MockRepository, gen *MockGenerator) {
				repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
				repo.On("GetEmployeeByID", mock.Anything, employee.ID).Return(employee, nil)
				repo.On("CreateAssignment", mock.Anything, mock.AnythingOfType("model.Assignment")).
					Return(model.PreconditionError{Reason: "device is not available"})
			},
			wantErr: model.PreconditionError{Reason: "device is not available"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			gen := &MockGenerator{}
			tt.setupMocks(repo, gen)

			svc := newAssignmentService(t, repo, gen)
			detail, err := svc.Create(context.Background(), tt.request)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, device.ID, detail.DeviceID)
			assert.Equal(t, employee.ID, detail.EmployeeID)
			assert.Nil(t, detail.ReturnedOn)
			assert.False(t, detail.AssignedOn.IsZero())
			repo.AssertExpectations(t)
		})
	}
}

func TestAssignmentService_Create_UsesProvidedAssignmentDate(t *testing.T) {
	device := availableDevice()
	employee := activeEmployee()
	assignedOn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	repo := &MockRepository{}
	gen := &MockGenerator{}
	repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
	repo.On("GetEmployeeByID", mock.Anything, employee.ID).Return(employee, nil)
	repo.On("CreateAssignment", mock.Anything, mock.MatchedBy(func(a model.Assignment) bool {
		return a.AssignedOn.Equal(assignedOn)
	})).Return(nil)
	gen.On("GenerateDelivery", mock.Anything, mock.Anything, mock.Anything).Return("k", nil).Maybe()
	repo.On("SetAssignmentDocumentKey", mock.Anything, mock.Anything, model.DocumentKindDelivery, "k").Return(nil).Maybe()

	svc := newAssignmentService(t, repo, gen)
	detail, err := svc.Create(context.Background(), service.CreateAssignmentRequest{
		DeviceID:   device.ID,
		EmployeeID: employee.ID,
		AssignedOn: assignedOn,
	})

	require.NoError(t, err)
	assert.True(t, detail.AssignedOn.Equal(assignedOn))
}

func TestAssignmentService_Close(t *testing.T) {
	device := availableDevice()
	device.Status = model.DeviceStatusAssigned
	employee := activeEmployee()
	assignedOn := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	returnedOn := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	openDetail := model.AssignmentDetail{
		Assignment: model.Assignment{
			ID:         uuid.New(),
			DeviceID:   device.ID,
			EmployeeID: employee.ID,
			AssignedOn: assignedOn,
			Notes:      "initial handover",
		},
		Employee: employee,
		Device:   device,
	}

	t.Run("successful_close_appends_notes", func(t *testing.T) {
		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, openDetail.ID).Return(openDetail, nil)
		repo.On("CloseAssignment", mock.Anything, openDetail.ID, returnedOn, "initial handover\nscreen scratched").Return(nil)
		gen.On("GenerateReturn", mock.Anything, mock.Anything, mock.Anything).Return("acts/return.pdf", nil).Maybe()
		repo.On("SetAssignmentDocumentKey", mock.Anything, mock.Anything, model.DocumentKindReturn, "acts/return.pdf").Return(nil).Maybe()

		svc := newAssignmentService(t, repo, gen)
		detail, err := svc.Close(context.Background(), openDetail.ID, service.CloseAssignmentRequest{
			ReturnedOn: returnedOn,
			Notes:      "screen scratched",
		})

		require.NoError(t, err)
		require.NotNil(t, detail.ReturnedOn)
		assert.True(t, detail.ReturnedOn.Equal(returnedOn))
		assert.Equal(t, model.DeviceStatusAvailable, detail.Device.Status)
		repo.AssertExpectations(t)
	})

	t.Run("already_returned", func(t *testing.T) {
		closed := openDetail
		closed.ReturnedOn = &returnedOn

		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, openDetail.ID).Return(closed, nil)

		svc := newAssignmentService(t, repo, gen)
		_, err := svc.Close(context.Background(), openDetail.ID, service.CloseAssignmentRequest{ReturnedOn: returnedOn})

		assert.Equal(t, model.PreconditionError{Reason: "assignment already returned"}, err)
	})

	t.Run("return_before_assignment_date", func(t *testing.T) {
		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, openDetail.ID).Return(openDetail, nil)

		svc := newAssignmentService(t, repo, gen)
		_, err := svc.Close(context.Background(), openDetail.ID, service.CloseAssignmentRequest{
			ReturnedOn: assignedOn.AddDate(0, 0, -1),
		})

		assert.Equal(t, model.ValidationError{Message: "return date precedes assignment date"}, err)
	})

	t.Run("not_found", func(t *testing.T) {
		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, openDetail.ID).
			Return(model.AssignmentDetail{}, model.NotFoundError{Entity: "assignment"})

		svc := newAssignmentService(t, repo, gen)
		_, err := svc.Close(context.Background(), openDetail.ID, service.CloseAssignmentRequest{ReturnedOn: returnedOn})

		assert.Equal(t, model.NotFoundError{Entity: "assignment"}, err)
	})
}

func TestAssignmentService_Document(t *testing.T) {
	employee := activeEmployee()
	device := availableDevice()
	assignedOn := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	returnedOn := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	existingKey := "acts/existing.pdf"

	requester := model.User{ID: uuid.New(), Username: "mrodriguez", Role: model.RoleAdmin}

	t.Run("returns_stored_key_when_artifact_exists", func(t *testing.T) {
		detail := model.AssignmentDetail{
			Assignment: model.Assignment{
				ID:             uuid.New(),
				DeviceID:       device.ID,
				EmployeeID:     employee.ID,
				AssignedOn:     assignedOn,
				DeliveryActKey: &existingKey,
			},
			Employee: employee,
			Device:   device,
		}

		repo := &MockRepository{}
		gen := &MockGenerator{}
		store := &MockStorage{}
		repo.On("GetAssignmentDetail", mock.Anything, detail.ID).Return(detail, nil)
		store.On("Exists", mock.Anything, existingKey).Return(true, nil)

		svc := newAssignmentServiceWithStorage(t, repo, gen, store)
		key, err := svc.Document(context.Background(), detail.ID, model.DocumentKindDelivery, requester)

		require.NoError(t, err)
		assert.Equal(t, existingKey, key)
		gen.AssertNotCalled(t, "GenerateDelivery", mock.Anything, mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("regenerates_when_artifact_is_gone", func(t *testing.T) {
		// The stored key points at an artifact deleted from the backend.
		detail := model.AssignmentDetail{
			Assignment: model.Assignment{
				ID:             uuid.New(),
				DeviceID:       device.ID,
				EmployeeID:     employee.ID,
				AssignedOn:     assignedOn,
				DeliveryActKey: &existingKey,
			},
			Employee: employee,
			Device:   device,
		}

		repo := &MockRepository{}
		gen := &MockGenerator{}
		store := &MockStorage{}
		repo.On("GetAssignmentDetail", mock.Anything, detail.ID).Return(detail, nil)
		store.On("Exists", mock.Anything, existingKey).Return(false, nil)
		gen.On("GenerateDelivery", mock.Anything, detail.ID, mock.Anything).Return("acts/fresh.pdf", nil)
		repo.On("SetAssignmentDocumentKey", mock.Anything, detail.ID, model.DocumentKindDelivery, "acts/fresh.pdf").Return(nil)

		svc := newAssignmentServiceWithStorage(t, repo, gen, store)
		key, err := svc.Document(context.Background(), detail.ID, model.DocumentKindDelivery, requester)

		require.NoError(t, err)
		assert.Equal(t, "acts/fresh.pdf", key)
		repo.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("generates_missing_delivery_act_stamping_requester", func(t *testing.T) {
		detail := model.AssignmentDetail{
			Assignment: model.Assignment{
				ID:         uuid.New(),
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
				AssignedOn: assignedOn,
			},
			Employee: employee,
			Device:   device,
		}

		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, detail.ID).Return(detail, nil)
		gen.On("GenerateDelivery", mock.Anything, detail.ID, mock.MatchedBy(func(snap document.DeliverySnapshot) bool {
			return snap.ResponsibleName == "mrodriguez" && snap.ResponsibleTitle == "admin"
		})).Return("acts/new.pdf", nil)
		repo.On("SetAssignmentDocumentKey", mock.Anything, detail.ID, model.DocumentKindDelivery, "acts/new.pdf").Return(nil)

		svc := newAssignmentService(t, repo, gen)
		key, err := svc.Document(context.Background(), detail.ID, model.DocumentKindDelivery, requester)

		require.NoError(t, err)
		assert.Equal(t, "acts/new.pdf", key)
		repo.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("return_act_requires_closed_assignment", func(t *testing.T) {
		detail := model.AssignmentDetail{
			Assignment: model.Assignment{
				ID:         uuid.New(),
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
				AssignedOn: assignedOn,
			},
			Employee: employee,
			Device:   device,
		}

		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, detail.ID).Return(detail, nil)

		svc := newAssignmentService(t, repo, gen)
		_, err := svc.Document(context.Background(), detail.ID, model.DocumentKindReturn, requester)

		assert.Equal(t, model.PreconditionError{Reason: "assignment has not been returned"}, err)
	})

	t.Run("generates_return_act_for_closed_assignment", func(t *testing.T) {
		detail := model.AssignmentDetail{
			Assignment: model.Assignment{
				ID:         uuid.New(),
				DeviceID:   device.ID,
				EmployeeID: employee.ID,
				AssignedOn: assignedOn,
				ReturnedOn: &returnedOn,
			},
			Employee: employee,
			Device:   device,
		}

		repo := &MockRepository{}
		gen := &MockGenerator{}
		repo.On("GetAssignmentDetail", mock.Anything, detail.ID).Return(detail, nil)
		gen.On("GenerateReturn", mock.Anything, detail.ID, mock.Anything).Return("acts/return.pdf", nil)
		repo.On("SetAssignmentDocumentKey", mock.Anything, detail.ID, model.DocumentKindReturn, "acts/return.pdf").Return(nil)

		svc := newAssignmentService(t, repo, gen)
		key, err := svc.Document(context.Background(), detail.ID, model.DocumentKindReturn, requester)

		require.NoError(t, err)
		assert.Equal(t, "acts/return.pdf", key)
	})
}

func TestAssignmentService_History(t *testing.T) {
	device := availableDevice()

	repo := &MockRepository{}
	gen := &MockGenerator{}
	repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
	repo.On("ListAssignments", mock.Anything, mock.MatchedBy(func(p repository.ListAssignmentsParams) bool {
		return p.DeviceID != nil && *p.DeviceID == device.ID
	})).Return([]model.AssignmentDetail{}, nil)

	svc := newAssignmentService(t, repo, gen)
	_, err := svc.History(context.Background(), device.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
