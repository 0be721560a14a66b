package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
	"hrdesk/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Commit(ctx context.Context, input service.CommitInput) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) RemoveBySlot(ctx context.Context, employeeID uuid.UUID, slotID string, userID uuid.UUID) error {
	args := m.Called(ctx, employeeID, slotID, userID)
	return args.Error(0)
}

func (m *MockDocumentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) GetView(ctx context.Context, docID uuid.UUID) (*service.DocumentView, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockDocumentService) GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, employeeID, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.EmployeeDocument), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) Verify(ctx context.Context, docID, reviewerID uuid.UUID) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, docID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) Reject(ctx context.Context, docID, reviewerID uuid.UUID, reason string) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, docID, reviewerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) ApplyDecision(ctx context.Context, decision domain.VerificationDecision) (*domain.EmployeeDocument, error) {
	args := m.Called(ctx, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeDocument), args.Error(1)
}

func (m *MockDocumentService) OnDecision(listener service.DecisionListener) {
	m.Called(listener)
}

func (m *MockDocumentService) ListAudit(ctx context.Context, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	args := m.Called(ctx, docID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAuditEntry), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) ListEmployeeAudit(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	args := m.Called(ctx, employeeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAuditEntry), args.Int(1), args.Error(2)
}
