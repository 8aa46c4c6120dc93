package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
)

// EmployeeService manages the employee registry.
type EmployeeService struct {
	repo      repository.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewEmployeeService(repo repository.Repository, validator *validator.Validator, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		validator: validator,
		logger:    logger.With("component", "employees"),
	}
}

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	JobTitle   string `json:"job_title" validate:"max=200"`
	Department string `json:"department" validate:"max=200"`
	Location   string `json:"location" validate:"max=200"`
	Company    string `json:"company" validate:"max=200"`
}

type UpdateEmployeeRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,max=200"`
	JobTitle   *string `json:"job_title" validate:"omitempty,max=200"`
	Department *string `json:"department" validate:"omitempty,max=200"`
	Location   *string `json:"location" validate:"omitempty,max=200"`
	Company    *string `json:"company" validate:"omitempty,max=200"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (model.Employee, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Employee{}, model.ValidationError{Message: err.Error()}
	}

	now := time.Now().UTC()
	employee := model.Employee{
		ID:         uuid.New(),
		FullName:   strings.TrimSpace(req.FullName),
		JobTitle:   strings.TrimSpace(req.JobTitle),
		Department: strings.TrimSpace(req.Department),
		Location:   strings.TrimSpace(req.Location),
		Company:    strings.TrimSpace(req.Company),
		Status:     model.EmployeeStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return model.Employee{}, err
	}

	s.logger.Info("employee created", "employee_id", employee.ID, "name", employee.FullName)
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	return s.repo.GetEmployeeByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, params repository.ListEmployeesParams) ([]model.Employee, error) {
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	return s.repo.ListEmployees(ctx, params)
}

func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (model.Employee, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Employee{}, model.ValidationError{Message: err.Error()}
	}

	employee, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}

	if req.FullName != nil {
		employee.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.JobTitle != nil {
		employee.JobTitle = strings.TrimSpace(*req.JobTitle)
	}
	if req.Department != nil {
		employee.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		employee.Location = strings.TrimSpace(*req.Location)
	}
	if req.Company != nil {
		employee.Company = strings.TrimSpace(*req.Company)
	}
	if req.Status != nil {
		employee.Status = model.EmployeeStatus(*req.Status)
	}
	employee.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateEmployee(ctx, employee); err != nil {
		return model.Employee{}, err
	}
	return employee, nil
}

// Delete removes an employee together with their whole assignment history.
// Devices still held by the employee are put back in circulation. The
// cascade is deliberate and irreversible.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetEmployeeByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deleted with assignment history", "employee_id", id)
	return nil
}

// Assignments lists the employee's assignment history, newest first.
func (s *EmployeeService) Assignments(ctx context.Context, id uuid.UUID) ([]model.AssignmentDetail, error) {
	if _, err := s.repo.GetEmployeeByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, repository.ListAssignmentsParams{
		EmployeeID: &id,
		Limit:      200,
	})
}
