package service

import (
	"context"
	"fmt"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/upload"
)

// StatsService provides aggregate statistics for the admin dashboard.
type StatsService interface {
	GetDashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
	catalog   *upload.Catalog
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository, catalog *upload.Catalog) StatsService {
	if catalog == nil {
		catalog = upload.DefaultCatalog()
	}
	return &statsService{statsRepo: statsRepo, catalog: catalog}
}

func (s *statsService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.statsRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	required := s.catalog.Required()
	stats.RequiredSlotsPerStaff = len(required)
	if len(required) == 0 {
		return stats, nil
	}

	incomplete, err := s.statsRepo.CountIncomplete(ctx, required)
	if err != nil {
		return nil, fmt.Errorf("statsService.GetDashboard: %w", err)
	}
	stats.IncompleteEmployees = incomplete
	return stats, nil
}
