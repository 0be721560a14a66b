package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
)

func TestEmployeeDocumentRepo_Upsert_ReturnsStoredRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeDocumentRepo(db)

	existingID := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (employee_id, slot_id) DO UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(existingID.String(), created))

	doc := &domain.EmployeeDocument{
		EmployeeID:         uuid.New(),
		SlotID:             "national_id",
		FileID:             uuid.New(),
		VerificationStatus: domain.VerificationPending,
	}
	require.NoError(t, repo.Upsert(context.Background(), doc))
	assert.Equal(t, existingID, doc.ID)
	assert.Equal(t, created, doc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDocumentRepo_GetBySlot_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeDocumentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM employee_documents WHERE employee_id = $1 AND slot_id = $2")).
		WithArgs(sqlmock.AnyArg(), "resume").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBySlot(context.Background(), uuid.New(), "resume")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestEmployeeDocumentRepo_UpdateVerification(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeDocumentRepo(db)
	reviewer := uuid.New()
	at := time.Now().UTC()
	doc := &domain.EmployeeDocument{
		ID:                 uuid.New(),
		VerificationStatus: domain.VerificationRejected,
		RejectionReason:    "blurry photo",
		VerifiedBy:         &reviewer,
		VerifiedAt:         &at,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employee_documents SET verification_status = $1")).
		WithArgs(domain.VerificationRejected, "blurry photo", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), doc.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateVerification(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDocumentRepo_StatusMatrix(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmployeeDocumentRepo(db)
	emp := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT employee_id, slot_id, verification_status FROM employee_documents")).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "slot_id", "verification_status"}).
			AddRow(emp.String(), "national_id", "verified").
			AddRow(emp.String(), "resume", "pending"))

	rows, err := repo.StatusMatrix(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.VerificationVerified, rows[0].VerificationStatus)
	assert.Equal(t, "resume", rows[1].SlotID)
}
