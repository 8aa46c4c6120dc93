package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fleettrack/internal/document"
	"fleettrack/internal/model"
	"fleettrack/internal/monitoring"
	"fleettrack/internal/repository"
	"fleettrack/internal/storage"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
)

// DocumentGenerator renders an act for an assignment event and returns the
// key of the stored artifact.
type DocumentGenerator interface {
	GenerateDelivery(ctx context.Context, assignmentID uuid.UUID, snap document.DeliverySnapshot) (string, error)
	GenerateReturn(ctx context.Context, assignmentID uuid.UUID, snap document.ReturnSnapshot) (string, error)
}

// AssignmentService owns the assignment ledger: handing devices out, taking
// them back, and the paperwork issued on both events. Document generation is
// best effort; a failed render never rolls back the assignment itself.
type AssignmentService struct {
	repo          repository.Repository
	generator     DocumentGenerator
	storage       storage.Storage
	telemetry     monitoring.Telemetry
	validator     *validator.Validator
	logger        *slog.Logger
	renderTimeout time.Duration
}

func NewAssignmentService(
	repo repository.Repository,
	generator DocumentGenerator,
	storage storage.Storage,
	telemetry monitoring.Telemetry,
	validator *validator.Validator,
	logger *slog.Logger,
	renderTimeout time.Duration,
) *AssignmentService {
	return &AssignmentService{
		repo:          repo,
		generator:     generator,
		storage:       storage,
		telemetry:     telemetry,
		validator:     validator,
		logger:        logger.With("component", "assignments"),
		renderTimeout: renderTimeout,
	}
}

type CreateAssignmentRequest struct {
	DeviceID   uuid.UUID `json:"device_id" validate:"required"`
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	AssignedOn time.Time `json:"assigned_on"`
	Notes      string    `json:"notes" validate:"max=2000"`

	// ResponsibleName and ResponsibleTitle identify who hands the device
	// over; they are printed on the delivery act only.
	ResponsibleName  string `json:"responsible_name" validate:"max=200"`
	ResponsibleTitle string `json:"responsible_title" validate:"max=200"`
}

type CloseAssignmentRequest struct {
	ReturnedOn time.Time `json:"returned_on"`
	Notes      string    `json:"notes" validate:"max=2000"`
}

// Create opens an assignment for a device and an employee. The device must
// be available and the employee active; the repository re-checks the device
// state inside the transaction, so two concurrent creates for the same
// device cannot both succeed.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (model.AssignmentDetail, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.AssignmentDetail{}, model.ValidationError{Message: err.Error()}
	}

	device, err := s.repo.GetDeviceByID(ctx, req.DeviceID)
	if err != nil {
		return model.AssignmentDetail{}, err
	}
	if !device.IsAvailable() {
		return model.AssignmentDetail{}, model.PreconditionError{Reason: "device is not available"}
	}

	employee, err := s.repo.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		return model.AssignmentDetail{}, err
	}
	if !employee.IsActive() {
		return model.AssignmentDetail{}, model.PreconditionError{Reason: "employee is not active"}
	}

	assignedOn := req.AssignedOn
	if assignedOn.IsZero() {
		assignedOn = time.Now().UTC()
	}

	now := time.Now().UTC()
	assignment := model.Assignment{
		ID:         uuid.New(),
		DeviceID:   device.ID,
		EmployeeID: employee.ID,
		AssignedOn: assignedOn,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return model.AssignmentDetail{}, err
	}
	s.telemetry.RecordAssignmentCreated(ctx)

	s.logger.Info("assignment created",
		"assignment_id", assignment.ID,
		"device_id", device.ID,
		"employee_id", employee.ID)

	go s.generateDeliveryAct(assignment, device, employee, req.ResponsibleName, req.ResponsibleTitle)

	return model.AssignmentDetail{
		Assignment: assignment,
		Employee:   employee,
		Device:     device,
	}, nil
}

// Close returns the device of an open assignment. The return date may not
// precede the assignment date; closing an already-returned assignment fails.
func (s *AssignmentService) Close(ctx context.Context, id uuid.UUID, req CloseAssignmentRequest) (model.AssignmentDetail, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.AssignmentDetail{}, model.ValidationError{Message: err.Error()}
	}

	detail, err := s.repo.GetAssignmentDetail(ctx, id)
	if err != nil {
		return model.AssignmentDetail{}, err
	}
	if !detail.IsActive() {
		return model.AssignmentDetail{}, model.PreconditionError{Reason: "assignment already returned"}
	}

	returnedOn := req.ReturnedOn
	if returnedOn.IsZero() {
		returnedOn = time.Now().UTC()
	}
	if returnedOn.Before(detail.AssignedOn) {
		return model.AssignmentDetail{}, model.ValidationError{Message: "return date precedes assignment date"}
	}

	notes := detail.Notes
	if extra := strings.TrimSpace(req.Notes); extra != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += extra
	}

	if err := s.repo.CloseAssignment(ctx, id, returnedOn, notes); err != nil {
		return model.AssignmentDetail{}, err
	}
	s.telemetry.RecordAssignmentClosed(ctx)

	s.logger.Info("assignment closed",
		"assignment_id", id,
		"device_id", detail.DeviceID,
		"returned_on", returnedOn)

	detail.ReturnedOn = &returnedOn
	detail.Notes = notes
	detail.Device.Status = model.DeviceStatusAvailable

	go s.generateReturnAct(detail.Assignment, detail.Device, detail.Employee)

	return detail, nil
}

func (s *AssignmentService) Get(ctx context.Context, id uuid.UUID) (model.AssignmentDetail, error) {
	return s.repo.GetAssignmentDetail(ctx, id)
}

func (s *AssignmentService) List(ctx context.Context, params repository.ListAssignmentsParams) ([]model.AssignmentDetail, error) {
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	return s.repo.ListAssignments(ctx, params)
}

// History lists every assignment a device has gone through, newest first.
func (s *AssignmentService) History(ctx context.Context, deviceID uuid.UUID) ([]model.AssignmentDetail, error) {
	if _, err := s.repo.GetDeviceByID(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, repository.ListAssignmentsParams{
		DeviceID: &deviceID,
		Limit:    200,
	})
}

// Document returns the stored act for the assignment, generating it first
// when it is missing or its artifact is gone from the backend. A return act
// can only exist for a closed assignment. The requesting user is stamped as
// the responsible party on a regenerated delivery act.
func (s *AssignmentService) Document(ctx context.Context, id uuid.UUID, kind model.DocumentKind, requestedBy model.User) (string, error) {
	detail, err := s.repo.GetAssignmentDetail(ctx, id)
	if err != nil {
		return "", err
	}

	if kind == model.DocumentKindReturn && detail.IsActive() {
		return "", model.PreconditionError{Reason: "assignment has not been returned"}
	}

	if key := detail.DocumentKey(kind); key != nil {
		exists, err := s.storage.Exists(ctx, *key)
		if err != nil {
			s.logger.Warn("artifact lookup failed, regenerating",
				"assignment_id", detail.ID, "key", *key, "error", err)
		}
		if err == nil && exists {
			return *key, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.renderTimeout)
	defer cancel()

	var key string
	switch kind {
	case model.DocumentKindReturn:
		key, err = s.generator.GenerateReturn(ctx, detail.ID, returnSnapshot(detail.Assignment, detail.Device, detail.Employee))
	case model.DocumentKindDelivery:
		key, err = s.generator.GenerateDelivery(ctx, detail.ID,
			deliverySnapshot(detail.Assignment, detail.Device, detail.Employee, requestedBy.Username, string(requestedBy.Role)))
	default:
		return "", model.ValidationError{Message: fmt.Sprintf("unknown document kind %q", kind)}
	}
	if err != nil {
		s.telemetry.RecordDocumentGenerated(ctx, string(kind), false)
		return "", fmt.Errorf("generate %s act: %w", kind, err)
	}
	s.telemetry.RecordDocumentGenerated(ctx, string(kind), true)

	if err := s.repo.SetAssignmentDocumentKey(ctx, detail.ID, kind, key); err != nil {
		return "", err
	}
	return key, nil
}

// generateDeliveryAct runs detached from the request that created the
// assignment. Failures are logged and counted, never surfaced.
func (s *AssignmentService) generateDeliveryAct(assignment model.Assignment, device model.Device, employee model.Employee, responsibleName, responsibleTitle string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.renderTimeout)
	defer cancel()

	key, err := s.generator.GenerateDelivery(ctx, assignment.ID, deliverySnapshot(assignment, device, employee, responsibleName, responsibleTitle))
	if err != nil {
		s.telemetry.RecordDocumentGenerated(ctx, string(model.DocumentKindDelivery), false)
		s.logger.Error("delivery act generation failed", "assignment_id", assignment.ID, "error", err)
		return
	}
	s.telemetry.RecordDocumentGenerated(ctx, string(model.DocumentKindDelivery), true)

	if err := s.repo.SetAssignmentDocumentKey(ctx, assignment.ID, model.DocumentKindDelivery, key); err != nil {
		s.logger.Error("storing delivery act key failed", "assignment_id", assignment.ID, "error", err)
	}
}

func (s *AssignmentService) generateReturnAct(assignment model.Assignment, device model.Device, employee model.Employee) {
	ctx, cancel := context.WithTimeout(context.Background(), s.renderTimeout)
	defer cancel()

	key, err := s.generator.GenerateReturn(ctx, assignment.ID, returnSnapshot(assignment, device, employee))
	if err != nil {
		s.telemetry.RecordDocumentGenerated(ctx, string(model.DocumentKindReturn), false)
		s.logger.Error("return act generation failed", "assignment_id", assignment.ID, "error", err)
		return
	}
	s.telemetry.RecordDocumentGenerated(ctx, string(model.DocumentKindReturn), true)

	if err := s.repo.SetAssignmentDocumentKey(ctx, assignment.ID, model.DocumentKindReturn, key); err != nil {
		s.logger.Error("storing return act key failed", "assignment_id", assignment.ID, "error", err)
	}
}

func deliverySnapshot(assignment model.Assignment, device model.Device, employee model.Employee, responsibleName, responsibleTitle string) document.DeliverySnapshot {
	return document.DeliverySnapshot{
		EmployeeName:     employee.FullName,
		EmployeeTitle:    employee.JobTitle,
		ResponsibleName:  responsibleName,
		ResponsibleTitle: responsibleTitle,
		AssignedOn:       assignment.AssignedOn,
		PhoneNumber:      deref(device.PhoneNumber),
		DeviceBrand:      device.Brand,
		DeviceModel:      device.Model,
		DeviceIMEI:       deref(device.IMEI),
		DeviceCondition:  string(device.PhysicalCondition),
	}
}

func returnSnapshot(assignment model.Assignment, device model.Device, employee model.Employee) document.ReturnSnapshot {
	returnedOn := time.Now().UTC()
	if assignment.ReturnedOn != nil {
		returnedOn = *assignment.ReturnedOn
	}
	return document.ReturnSnapshot{
		EmployeeName:  employee.FullName,
		EmployeeTitle: employee.JobTitle,
		AssignedOn:    assignment.AssignedOn,
		ReturnedOn:    returnedOn,
		DeviceBrand:   device.Brand,
		DeviceModel:   device.Model,
		DeviceSerial:  deref(device.SerialNumber),
		DeviceIMEI:    deref(device.IMEI),
		Notes:         assignment.Notes,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
