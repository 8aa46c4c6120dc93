package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"fleettrack/internal/depreciation"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// ReportService assembles the fleet-wide dashboard and valuation figures.
type ReportService struct {
	repo   repository.Repository
	logger *slog.Logger
}

func NewReportService(repo repository.Repository, logger *slog.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		logger: logger.With("component", "reports"),
	}
}

// Dashboard is the fleet summary at a single valuation instant.
type Dashboard struct {
	AsOf              time.Time                    `json:"as_of"`
	TotalDevices      int                          `json:"total_devices"`
	DevicesByStatus   map[model.DeviceStatus]int   `json:"devices_by_status"`
	TotalEmployees    int                          `json:"total_employees"`
	TotalInitialCost  float64                      `json:"total_initial_cost"`
	TotalCurrentValue float64                      `json:"total_current_value"`
	TotalDepreciated  float64                      `json:"total_depreciated"`
}

// ValuationLine is one device's row in the depreciation report.
type ValuationLine struct {
	Device       model.Device        `json:"device"`
	Depreciation depreciation.Result `json:"depreciation"`
}

// Dashboard computes the summary with every device valued at the same asOf,
// so the totals are internally consistent.
func (s *ReportService) Dashboard(ctx context.Context, asOf time.Time) (Dashboard, error) {
	byStatus, err := s.repo.CountDevicesByStatus(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	employees, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	devices, err := s.repo.ListAllDevices(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		AsOf:            asOf,
		DevicesByStatus: byStatus,
		TotalEmployees:  employees,
	}
	for _, count := range byStatus {
		dashboard.TotalDevices += count
	}

	for _, device := range devices {
		result := depreciation.Compute(device.InitialCost, device.PurchaseDate, asOf)
		dashboard.TotalInitialCost += result.InitialCost
		dashboard.TotalCurrentValue += result.CurrentValue
		dashboard.TotalDepreciated += result.Accumulated
	}
	dashboard.TotalInitialCost = round2(dashboard.TotalInitialCost)
	dashboard.TotalCurrentValue = round2(dashboard.TotalCurrentValue)
	dashboard.TotalDepreciated = round2(dashboard.TotalDepreciated)

	return dashboard, nil
}

// DevicesByStatus returns how many devices sit in each lifecycle state.
func (s *ReportService) DevicesByStatus(ctx context.Context) (map[model.DeviceStatus]int, error) {
	return s.repo.CountDevicesByStatus(ctx)
}

// Valuation returns the per-device depreciation report at asOf.
func (s *ReportService) Valuation(ctx context.Context, asOf time.Time) ([]ValuationLine, error) {
	devices, err := s.repo.ListAllDevices(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]ValuationLine, 0, len(devices))
	for _, device := range devices {
		lines = append(lines, ValuationLine{
			Device:       device,
			Depreciation: depreciation.Compute(device.InitialCost, device.PurchaseDate, asOf),
		})
	}
	return lines, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
