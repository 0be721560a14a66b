package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type employeeDocumentRepo struct {
	db *sqlx.DB
}

// NewEmployeeDocumentRepo creates a new PostgreSQL-backed EmployeeDocumentRepository.
func NewEmployeeDocumentRepo(db *sqlx.DB) port.EmployeeDocumentRepository {
	return &employeeDocumentRepo{db: db}
}

// A re-upload replaces the file and resets the verification fields.
const upsertDocumentQuery = `INSERT INTO employee_documents
	(id, employee_id, slot_id, file_id, verification_status, rejection_reason,
	 verified_by, verified_at, uploaded_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (employee_id, slot_id) DO UPDATE SET
		file_id = EXCLUDED.file_id,
		verification_status = EXCLUDED.verification_status,
		rejection_reason = EXCLUDED.rejection_reason,
		verified_by = EXCLUDED.verified_by,
		verified_at = EXCLUDED.verified_at,
		uploaded_by = EXCLUDED.uploaded_by,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

func (r *employeeDocumentRepo) Upsert(ctx context.Context, doc *domain.EmployeeDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, upsertDocumentQuery,
		doc.ID, doc.EmployeeID, doc.SlotID, doc.FileID, doc.VerificationStatus, doc.RejectionReason,
		doc.VerifiedBy, doc.VerifiedAt, doc.UploadedBy, doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("employeeDocumentRepo.Upsert: %w", err)
	}
	return nil
}

func (r *employeeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeDocument, error) {
	var doc domain.EmployeeDocument
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM employee_documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("employeeDocumentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *employeeDocumentRepo) GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error) {
	var doc domain.EmployeeDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM employee_documents WHERE employee_id = $1 AND slot_id = $2", employeeID, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("employeeDocumentRepo.GetBySlot: %w", err)
	}
	return &doc, nil
}

func (r *employeeDocumentRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error) {
	var docs []domain.EmployeeDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM employee_documents WHERE employee_id = $1 ORDER BY slot_id", employeeID)
	if err != nil {
		return nil, fmt.Errorf("employeeDocumentRepo.ListByEmployee: %w", err)
	}
	return docs, nil
}

func (r *employeeDocumentRepo) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM employee_documents WHERE verification_status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("employeeDocumentRepo.ListByStatus count: %w", err)
	}

	var docs []domain.EmployeeDocument
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM employee_documents WHERE verification_status = $1
		 ORDER BY updated_at ASC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("employeeDocumentRepo.ListByStatus: %w", err)
	}
	return docs, total, nil
}

func (r *employeeDocumentRepo) UpdateVerification(ctx context.Context, doc *domain.EmployeeDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE employee_documents SET verification_status = $1, rejection_reason = $2,
		 verified_by = $3, verified_at = $4, updated_at = $5 WHERE id = $6`,
		doc.VerificationStatus, doc.RejectionReason, doc.VerifiedBy, doc.VerifiedAt, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("employeeDocumentRepo.UpdateVerification: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *employeeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM employee_documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("employeeDocumentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *employeeDocumentRepo) StatusMatrix(ctx context.Context) ([]domain.EmployeeDocumentStatus, error) {
	var rows []domain.EmployeeDocumentStatus
	err := r.db.SelectContext(ctx, &rows,
		"SELECT employee_id, slot_id, verification_status FROM employee_documents ORDER BY employee_id, slot_id")
	if err != nil {
		return nil, fmt.Errorf("employeeDocumentRepo.StatusMatrix: %w", err)
	}
	return rows, nil
}
