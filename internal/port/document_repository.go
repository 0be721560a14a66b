package port

import (
	"context"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// EmployeeDocumentRepository defines the contract for committed slot documents.
// There is at most one document per (employee, slot).
type EmployeeDocumentRepository interface {
	// Upsert inserts the document or replaces the one already stored for its slot.
	// doc.ID and timestamps are filled from the stored row.
	Upsert(ctx context.Context, doc *domain.EmployeeDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeDocument, error)
	GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error)
	UpdateVerification(ctx context.Context, doc *domain.EmployeeDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	StatusMatrix(ctx context.Context) ([]domain.EmployeeDocumentStatus, error)
}
