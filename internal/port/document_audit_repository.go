package port

import (
	"context"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// DocumentAuditRepository persists the upload, removal and verification history of employee documents.
// Entries outlive the documents they describe. Listings are newest first.
type DocumentAuditRepository interface {
	Create(ctx context.Context, entry *domain.DocumentAuditEntry) error
	ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error)
}
