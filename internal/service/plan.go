package service

import (
	"context"
	"log/slog"
	"strings"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
)

// PlanService manages the carrier plan catalog devices can reference.
type PlanService struct {
	repo      repository.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewPlanService(repo repository.Repository, validator *validator.Validator, logger *slog.Logger) *PlanService {
	return &PlanService{
		repo:      repo,
		validator: validator,
		logger:    logger.With("component", "plans"),
	}
}

type PlanRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	MonthlyCost float64 `json:"monthly_cost" validate:"gte=0"`
	Description string  `json:"description" validate:"max=500"`
}

func (s *PlanService) Create(ctx context.Context, req PlanRequest) (model.Plan, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Plan{}, model.ValidationError{Message: err.Error()}
	}

	plan := model.Plan{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		MonthlyCost: req.MonthlyCost,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return model.Plan{}, err
	}

	s.logger.Info("plan created", "plan_id", plan.ID, "name", plan.Name)
	return plan, nil
}

func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (model.Plan, error) {
	return s.repo.GetPlanByID(ctx, id)
}

func (s *PlanService) List(ctx context.Context) ([]model.Plan, error) {
	return s.repo.ListPlans(ctx)
}

func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req PlanRequest) (model.Plan, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Plan{}, model.ValidationError{Message: err.Error()}
	}

	plan, err := s.repo.GetPlanByID(ctx, id)
	if err != nil {
		return model.Plan{}, err
	}

	plan.Name = strings.TrimSpace(req.Name)
	plan.MonthlyCost = req.MonthlyCost
	plan.Description = strings.TrimSpace(req.Description)

	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return model.Plan{}, err
	}
	return plan, nil
}

// Delete removes a plan. Devices referencing it keep working; their plan
// link is cleared by the database.
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetPlanByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeletePlan(ctx, id)
}
