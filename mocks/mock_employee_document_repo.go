package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
)

// MockEmployeeDocumentRepo is a mock implementation of port.EmployeeDocumentRepository.
type MockEmployeeDocumentRepo struct {
	mock.Mock
}

func (m *MockEmployeeDocumentRepo) Upsert(ctx context.Context, doc *domain.EmployeeDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockEmployeeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockEmployeeDocumentRepo) GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, employeeID, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockEmployeeDocumentRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeDocument), args.Error(1)
}

func (m *MockEmployeeDocumentRepo) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EmployeeDocument), args.Int(1), args.Error(2)
}

func (m *MockEmployeeDocumentRepo) UpdateVerification(ctx context.Context, doc *domain.EmployeeDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockEmployeeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmployeeDocumentRepo) StatusMatrix(ctx context.Context) ([]domain.EmployeeDocumentStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeDocumentStatus), args.Error(1)
}
