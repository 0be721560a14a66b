package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdesk/internal/export"
	"hrdesk/internal/port"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Roster(ctx context.Context, filter port.EmployeeFilter) (*export.Roster, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Roster), args.Error(1)
}
