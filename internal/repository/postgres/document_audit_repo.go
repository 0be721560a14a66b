package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type documentAuditRepo struct {
	db *sqlx.DB
}

// NewDocumentAuditRepo creates a new PostgreSQL-backed DocumentAuditRepository.
func NewDocumentAuditRepo(db *sqlx.DB) port.DocumentAuditRepository {
	return &documentAuditRepo{db: db}
}

func (r *documentAuditRepo) Create(ctx context.Context, entry *domain.DocumentAuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if len(entry.Changes) == 0 {
		entry.Changes = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_audit_log (id, document_id, employee_id, slot_id, user_id, action, changes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.DocumentID, entry.EmployeeID, entry.SlotID, entry.UserID, entry.Action, entry.Changes, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("documentAuditRepo.Create: %w", err)
	}
	return nil
}

func (r *documentAuditRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	return r.list(ctx, "ListByDocument", "document_id", documentID, offset, limit)
}

func (r *documentAuditRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	return r.list(ctx, "ListByEmployee", "employee_id", employeeID, offset, limit)
}

// list pages entries filtered on column, which must be one of the indexed id columns.
func (r *documentAuditRepo) list(ctx context.Context, op, column string, id uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		fmt.Sprintf(`SELECT COUNT(*) FROM document_audit_log WHERE %s = $1`, column), id)
	if err != nil {
		return nil, 0, fmt.Errorf("documentAuditRepo.%s count: %w", op, err)
	}
	if total == 0 {
		return []domain.DocumentAuditEntry{}, 0, nil
	}

	var entries []domain.DocumentAuditEntry
	err = r.db.SelectContext(ctx, &entries,
		fmt.Sprintf(`SELECT id, document_id, employee_id, slot_id, user_id, action, changes, created_at
		 FROM document_audit_log
		 WHERE %s = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, column),
		id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentAuditRepo.%s: %w", op, err)
	}
	return entries, total, nil
}
