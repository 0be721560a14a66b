package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdesk/internal/upload"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Catalog() *upload.Catalog {
	args := m.Called()
	return args.Get(0).(*upload.Catalog)
}

func (m *MockUploadService) State(ctx context.Context, employeeID uuid.UUID, slotID string) (upload.State, error) {
	args := m.Called(ctx, employeeID, slotID)
	return args.Get(0).(upload.State), args.Error(1)
}

func (m *MockUploadService) Select(ctx context.Context, employeeID uuid.UUID, slotID string, f *upload.File, actor uuid.UUID) (upload.State, error) {
	args := m.Called(ctx, employeeID, slotID, f, actor)
	return args.Get(0).(upload.State), args.Error(1)
}

func (m *MockUploadService) Remove(ctx context.Context, employeeID uuid.UUID, slotID string, actor uuid.UUID) (upload.State, error) {
	args := m.Called(ctx, employeeID, slotID, actor)
	return args.Get(0).(upload.State), args.Error(1)
}

func (m *MockUploadService) Subscribe(ctx context.Context, employeeID uuid.UUID, slotID string) (<-chan upload.State, func(), error) {
	args := m.Called(ctx, employeeID, slotID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan upload.State), args.Get(1).(func()), args.Error(2)
}

func (m *MockUploadService) Sweep(cutoff time.Time) int {
	args := m.Called(cutoff)
	return args.Int(0)
}

func (m *MockUploadService) Close() {
	m.Called()
}
