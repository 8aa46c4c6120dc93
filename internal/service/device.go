package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fleettrack/internal/depreciation"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
)

// DeviceService manages the device registry and its derived book values.
type DeviceService struct {
	repo      repository.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewDeviceService(repo repository.Repository, validator *validator.Validator, logger *slog.Logger) *DeviceService {
	return &DeviceService{
		repo:      repo,
		validator: validator,
		logger:    logger.With("component", "devices"),
	}
}

type CreateDeviceRequest struct {
	Brand             string     `json:"brand" validate:"required,max=100"`
	Model             string     `json:"model" validate:"required,max=100"`
	SerialNumber      *string    `json:"serial_number" validate:"omitempty,max=100"`
	IMEI              *string    `json:"imei" validate:"omitempty,imei"`
	PhoneNumber       *string    `json:"phone_number" validate:"omitempty,max=30"`
	PlanID            *uuid.UUID `json:"plan_id"`
	InitialCost       float64    `json:"initial_cost" validate:"gte=0"`
	PurchaseDate      time.Time  `json:"purchase_date" validate:"required"`
	PhysicalCondition string     `json:"physical_condition" validate:"omitempty,oneof=new used damaged"`
}

type UpdateDeviceRequest struct {
	Brand             *string    `json:"brand" validate:"omitempty,max=100"`
	Model             *string    `json:"model" validate:"omitempty,max=100"`
	SerialNumber      *string    `json:"serial_number" validate:"omitempty,max=100"`
	IMEI              *string    `json:"imei" validate:"omitempty,imei"`
	PhoneNumber       *string    `json:"phone_number" validate:"omitempty,max=30"`
	PlanID            *uuid.UUID `json:"plan_id"`
	InitialCost       *float64   `json:"initial_cost" validate:"omitempty,gte=0"`
	PurchaseDate      *time.Time `json:"purchase_date"`
	PhysicalCondition *string    `json:"physical_condition" validate:"omitempty,oneof=new used damaged"`
}

// DeviceWithValue pairs a device with its depreciation breakdown.
type DeviceWithValue struct {
	model.Device
	Depreciation depreciation.Result `json:"depreciation"`
}

func (s *DeviceService) Create(ctx context.Context, req CreateDeviceRequest) (model.Device, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Device{}, model.ValidationError{Message: err.Error()}
	}
	if req.PlanID != nil {
		if _, err := s.repo.GetPlanByID(ctx, *req.PlanID); err != nil {
			return model.Device{}, err
		}
	}

	condition := model.PhysicalCondition(req.PhysicalCondition)
	if condition == "" {
		condition = model.ConditionNew
	}

	now := time.Now().UTC()
	device := model.Device{
		ID:                uuid.New(),
		Brand:             strings.TrimSpace(req.Brand),
		Model:             strings.TrimSpace(req.Model),
		SerialNumber:      trimPtr(req.SerialNumber),
		IMEI:              trimPtr(req.IMEI),
		PhoneNumber:       trimPtr(req.PhoneNumber),
		PlanID:            req.PlanID,
		InitialCost:       req.InitialCost,
		PurchaseDate:      req.PurchaseDate,
		PhysicalCondition: condition,
		Status:            model.DeviceStatusAvailable,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.CreateDevice(ctx, device); err != nil {
		return model.Device{}, err
	}

	s.logger.Info("device created", "device_id", device.ID, "brand", device.Brand, "model", device.Model)
	return device, nil
}

// Get returns a device with its book value computed as of asOf.
func (s *DeviceService) Get(ctx context.Context, id uuid.UUID, asOf time.Time) (DeviceWithValue, error) {
	device, err := s.repo.GetDeviceByID(ctx, id)
	if err != nil {
		return DeviceWithValue{}, err
	}
	return DeviceWithValue{
		Device:       device,
		Depreciation: depreciation.Compute(device.InitialCost, device.PurchaseDate, asOf),
	}, nil
}

func (s *DeviceService) List(ctx context.Context, params repository.ListDevicesParams) ([]model.DeviceView, error) {
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	return s.repo.ListDevices(ctx, params)
}

// ListAvailable returns devices that can be handed out right now.
func (s *DeviceService) ListAvailable(ctx context.Context) ([]model.DeviceView, error) {
	status := model.DeviceStatusAvailable
	return s.repo.ListDevices(ctx, repository.ListDevicesParams{
		Status: &status,
		Limit:  200,
	})
}

// Update applies a partial edit. Status is not editable here; it only moves
// through assignment creation, return and retirement.
func (s *DeviceService) Update(ctx context.Context, id uuid.UUID, req UpdateDeviceRequest) (model.Device, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Device{}, model.ValidationError{Message: err.Error()}
	}

	device, err := s.repo.GetDeviceByID(ctx, id)
	if err != nil {
		return model.Device{}, err
	}

	if req.Brand != nil {
		device.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		device.Model = strings.TrimSpace(*req.Model)
	}
	if req.SerialNumber != nil {
		device.SerialNumber = trimPtr(req.SerialNumber)
	}
	if req.IMEI != nil {
		device.IMEI = trimPtr(req.IMEI)
	}
	if req.PhoneNumber != nil {
		device.PhoneNumber = trimPtr(req.PhoneNumber)
	}
	if req.PlanID != nil {
		if _, err := s.repo.GetPlanByID(ctx, *req.PlanID); err != nil {
			return model.Device{}, err
		}
		device.PlanID = req.PlanID
	}
	if req.InitialCost != nil {
		device.InitialCost = *req.InitialCost
	}
	if req.PurchaseDate != nil {
		device.PurchaseDate = *req.PurchaseDate
	}
	if req.PhysicalCondition != nil {
		device.PhysicalCondition = model.PhysicalCondition(*req.PhysicalCondition)
	}
	device.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateDevice(ctx, device); err != nil {
		return model.Device{}, err
	}
	return device, nil
}

// Retire takes a device out of circulation. An assigned device must be
// returned first; retiring an already retired device is a no-op.
func (s *DeviceService) Retire(ctx context.Context, id uuid.UUID) (model.Device, error) {
	device, err := s.repo.GetDeviceByID(ctx, id)
	if err != nil {
		return model.Device{}, err
	}
	if device.IsAssigned() {
		return model.Device{}, model.PreconditionError{Reason: "device is currently assigned"}
	}
	if device.Status == model.DeviceStatusRetired {
		return device, nil
	}

	if err := s.repo.RetireDevice(ctx, id); err != nil {
		return model.Device{}, err
	}

	device.Status = model.DeviceStatusRetired
	device.UpdatedAt = time.Now().UTC()
	s.logger.Info("device retired", "device_id", id)
	return device, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
