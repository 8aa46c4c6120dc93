package service_test

import (
	"context"
	"testing"
	"time"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeviceService(repo *MockRepository) *service.DeviceService {
	return service.NewDeviceService(repo, validator.New(), testLogger())
}

func TestDeviceService_Create(t *testing.T) {
	purchaseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		request    service.CreateDeviceRequest
		setupMocks func(*MockRepository)
		wantErr    bool
		check      func(*testing.T, model.Device)
	}{
		{
			name: "successful_create",
			request: service.CreateDeviceRequest{
				Brand:        "Samsung",
				Model:        "Galaxy S23",
				IMEI:         ptr("356938035643809"),
				InitialCost:  450,
				PurchaseDate: purchaseDate,
			},
			setupMocks: func(repo *MockRepository) {
				repo.On("CreateDevice", mock.Anything, mock.AnythingOfType("model.Device")).Return(nil)
			},
			check: func(t *testing.T, d model.Device) {
				assert.Equal(t, model.DeviceStatusAvailable, d.Status)
				assert.Equal(t, model.ConditionNew, d.PhysicalCondition)
			},
		},
		{
			name: "missing_brand",
			request: service.CreateDeviceRequest{
				Model:        "Galaxy S23",
				PurchaseDate: purchaseDate,
			},
			setupMocks: func(repo *MockRepository) {},
			wantErr:    true,
		},
		{
			name: "malformed_imei",
			request: service.CreateDeviceRequest{
				Brand:        "Samsung",
				Model:        "Galaxy S23",
				IMEI:         ptr("not-an-imei"),
				PurchaseDate: purchaseDate,
			},
			setupMocks: func(repo *MockRepository) {},
			wantErr:    true,
		},
		{
			name: "negative_cost",
			request: service.CreateDeviceRequest{
				Brand:        "Samsung",
				Model:        "Galaxy S23",
				InitialCost:  -10,
				PurchaseDate: purchaseDate,
			},
			setupMocks: func(repo *MockRepository) {},
			wantErr:    true,
		},
		{
			name: "duplicate_imei",
			request: service.CreateDeviceRequest{
				Brand:        "Samsung",
				Model:        "Galaxy S23",
				IMEI:         ptr("356938035643809"),
				PurchaseDate: purchaseDate,
			},
			setupMocks: func(repo *MockRepository) {
				repo.On("CreateDevice", mock.Anything, mock.AnythingOfType("model.Device")).
					Return(model.ConflictError{Field: "IMEI"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			tt.setupMocks(repo)

			svc := newDeviceService(repo)
			device, err := svc.Create(context.Background(), tt.request)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, device)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDeviceService_Create_UnknownPlan(t *testing.T) {
	planID := uuid.New()
	repo := &MockRepository{}
	repo.On("GetPlanByID", mock.Anything, planID).
		Return(model.Plan{}, model.NotFoundError{Entity: "plan", ID: planID.String()})

	svc := newDeviceService(repo)
	_, err := svc.Create(context.Background(), service.CreateDeviceRequest{
		Brand:        "Apple",
		Model:        "iPhone 15",
		PlanID:       &planID,
		PurchaseDate: time.Now(),
	})

	var notFound model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "plan", notFound.Entity)
}

func TestDeviceService_Get_ComputesDepreciation(t *testing.T) {
	device := availableDevice()
	asOf := device.PurchaseDate.AddDate(1, 0, 0)

	repo := &MockRepository{}
	repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)

	svc := newDeviceService(repo)
	got, err := svc.Get(context.Background(), device.ID, asOf)

	require.NoError(t, err)
	assert.InDelta(t, 12.0, got.Depreciation.MonthsElapsed, 0.001)
	assert.InDelta(t, 150.0, got.Depreciation.Accumulated, 0.001)
	assert.InDelta(t, 300.0, got.Depreciation.CurrentValue, 0.001)
}

func TestDeviceService_ListAvailable(t *testing.T) {
	device := availableDevice()
	views := []model.DeviceView{{Device: device}}

	repo := &MockRepository{}
	repo.On("ListDevices", mock.Anything, mock.MatchedBy(func(params repository.ListDevicesParams) bool {
		return params.Status != nil && *params.Status == model.DeviceStatusAvailable
	})).Return(views, nil)

	svc := newDeviceService(repo)
	got, err := svc.ListAvailable(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, device.ID, got[0].ID)
}

func TestDeviceService_Update(t *testing.T) {
	device := availableDevice()

	t.Run("partial_update", func(t *testing.T) {
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
		repo.On("UpdateDevice", mock.Anything, mock.MatchedBy(func(d model.Device) bool {
			return d.Brand == "Apple" && d.Model == device.Model
		})).Return(nil)

		svc := newDeviceService(repo)
		updated, err := svc.Update(context.Background(), device.ID, service.UpdateDeviceRequest{
			Brand: ptr("Apple"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Apple", updated.Brand)
		assert.Equal(t, device.Model, updated.Model)
		repo.AssertExpectations(t)
	})

	t.Run("status_is_not_editable", func(t *testing.T) {
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
		repo.On("UpdateDevice", mock.Anything, mock.MatchedBy(func(d model.Device) bool {
			return d.Status == model.DeviceStatusAvailable
		})).Return(nil)

		svc := newDeviceService(repo)
		updated, err := svc.Update(context.Background(), device.ID, service.UpdateDeviceRequest{
			PhysicalCondition: ptr("used"),
		})

		require.NoError(t, err)
		assert.Equal(t, model.DeviceStatusAvailable, updated.Status)
	})
}

func TestDeviceService_Retire(t *testing.T) {
	t.Run("available_device_retires", func(t *testing.T) {
		device := availableDevice()
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
		repo.On("RetireDevice", mock.Anything, device.ID).Return(nil)

		svc := newDeviceService(repo)
		retired, err := svc.Retire(context.Background(), device.ID)

		require.NoError(t, err)
		assert.Equal(t, model.DeviceStatusRetired, retired.Status)
		repo.AssertExpectations(t)
	})

	t.Run("assigned_device_is_blocked", func(t *testing.T) {
		device := availableDevice()
		device.Status = model.DeviceStatusAssigned
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)

		svc := newDeviceService(repo)
		_, err := svc.Retire(context.Background(), device.ID)

		assert.Equal(t, model.PreconditionError{Reason: "device is currently assigned"}, err)
		repo.AssertNotCalled(t, "RetireDevice", mock.Anything, mock.Anything)
	})

	t.Run("lost_race_surfaces_at_write_time", func(t *testing.T) {
		// An assignment commits between the availability read and the
		// retire write; the conditional update reports it.
		device := availableDevice()
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)
		repo.On("RetireDevice", mock.Anything, device.ID).
			Return(model.PreconditionError{Reason: "device is currently assigned"})

		svc := newDeviceService(repo)
		_, err := svc.Retire(context.Background(), device.ID)

		var precondition model.PreconditionError
		require.ErrorAs(t, err, &precondition)
	})

	t.Run("retired_device_is_a_noop", func(t *testing.T) {
		device := availableDevice()
		device.Status = model.DeviceStatusRetired
		repo := &MockRepository{}
		repo.On("GetDeviceByID", mock.Anything, device.ID).Return(device, nil)

		svc := newDeviceService(repo)
		got, err := svc.Retire(context.Background(), device.ID)

		require.NoError(t, err)
		assert.Equal(t, model.DeviceStatusRetired, got.Status)
		repo.AssertNotCalled(t, "RetireDevice", mock.Anything, mock.Anything)
	})
}

func ptr[T any](v T) *T {
	return &v
}
