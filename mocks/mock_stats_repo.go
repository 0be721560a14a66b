package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockStatsRepo) CountIncomplete(ctx context.Context, requiredSlots []string) (int, error) {
	args := m.Called(ctx, requiredSlots)
	return args.Int(0), args.Error(1)
}
