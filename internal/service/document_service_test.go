package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/service"
	"hrdesk/mocks"
)

type documentFixture struct {
	svc       service.DocumentService
	docRepo   *mocks.MockEmployeeDocumentRepo
	employees *mocks.MockEmployeeRepo
	audit     *mocks.MockDocumentAuditRepo
	files     *mocks.MockFileService
	publisher *mocks.MockEventPublisher
	email     *mocks.MockEmailSender
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		docRepo:   new(mocks.MockEmployeeDocumentRepo),
		employees: new(mocks.MockEmployeeRepo),
		audit:     new(mocks.MockDocumentAuditRepo),
		files:     new(mocks.MockFileService),
		publisher: new(mocks.MockEventPublisher),
		email:     new(mocks.MockEmailSender),
	}
	f.svc = service.NewDocumentService(f.docRepo, f.employees, f.audit, f.files, f.publisher, f.email, nil)
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("*domain.DocumentAuditEntry")).Return(nil).Maybe()
	f.publisher.On("PublishDecision", mock.Anything, mock.AnythingOfType("port.DecisionEvent")).Return(nil).Maybe()
	return f
}

func TestDocumentService_Commit_NewDocument(t *testing.T) {
	f := newDocumentFixture()
	employeeID, fileID, userID := uuid.New(), uuid.New(), uuid.New()

	f.docRepo.On("GetBySlot", mock.Anything, employeeID, "national_id").Return(nil, domain.ErrDocumentNotFound)
	f.docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.EmployeeDocument")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.EmployeeDocument).ID = uuid.New() }).
		Return(nil)

	doc, err := f.svc.Commit(context.Background(), service.CommitInput{
		EmployeeID: employeeID, SlotID: "national_id", FileID: fileID, UploadedBy: userID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, doc.VerificationStatus)
	assert.Equal(t, fileID, doc.FileID)
	f.files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.audit.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.DocumentAuditEntry) bool {
		return e.Action == string(domain.AuditDocumentUpload) && e.EmployeeID == employeeID
	}))
	f.publisher.AssertCalled(t, "PublishDecision", mock.Anything, mock.MatchedBy(func(e port.DecisionEvent) bool {
		return e.Status == domain.VerificationPending && e.SlotID == "national_id"
	}))
}

func TestDocumentService_Commit_ReplacesAndResetsVerification(t *testing.T) {
	f := newDocumentFixture()
	employeeID, oldFile, newFile := uuid.New(), uuid.New(), uuid.New()
	previous := &domain.EmployeeDocument{
		ID: uuid.New(), EmployeeID: employeeID, SlotID: "national_id", FileID: oldFile,
		VerificationStatus: domain.VerificationRejected, RejectionReason: "blurry",
	}

	f.docRepo.On("GetBySlot", mock.Anything, employeeID, "national_id").Return(previous, nil)
	f.docRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.EmployeeDocument")).Return(nil)
	f.files.On("Delete", mock.Anything, oldFile).Return(nil)

	doc, err := f.svc.Commit(context.Background(), service.CommitInput{
		EmployeeID: employeeID, SlotID: "national_id", FileID: newFile, UploadedBy: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, previous.ID, doc.ID)
	assert.Equal(t, domain.VerificationPending, doc.VerificationStatus)
	assert.Empty(t, doc.RejectionReason)
	assert.Nil(t, doc.VerifiedBy)
	f.files.AssertExpectations(t)
}

func TestDocumentService_Commit_UnknownSlot(t *testing.T) {
	f := newDocumentFixture()

	_, err := f.svc.Commit(context.Background(), service.CommitInput{EmployeeID: uuid.New(), SlotID: "tax_form", FileID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestDocumentService_RemoveBySlot(t *testing.T) {
	f := newDocumentFixture()
	doc := &domain.EmployeeDocument{ID: uuid.New(), EmployeeID: uuid.New(), SlotID: "resume", FileID: uuid.New()}

	f.docRepo.On("GetBySlot", mock.Anything, doc.EmployeeID, "resume").Return(doc, nil)
	f.docRepo.On("Delete", mock.Anything, doc.ID).Return(nil)
	f.files.On("Delete", mock.Anything, doc.FileID).Return(nil)

	require.NoError(t, f.svc.RemoveBySlot(context.Background(), doc.EmployeeID, "resume", uuid.New()))
	f.docRepo.AssertExpectations(t)
	f.files.AssertExpectations(t)
	f.audit.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.DocumentAuditEntry) bool {
		return e.Action == string(domain.AuditDocumentRemove) && e.SlotID == "resume"
	}))
}

func TestDocumentService_RemoveBySlot_NothingCommitted(t *testing.T) {
	f := newDocumentFixture()
	employeeID := uuid.New()
	f.docRepo.On("GetBySlot", mock.Anything, employeeID, "resume").Return(nil, domain.ErrDocumentNotFound)

	assert.NoError(t, f.svc.RemoveBySlot(context.Background(), employeeID, "resume", uuid.New()))
	f.docRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDocumentService_Verify_NotifiesEverything(t *testing.T) {
	f := newDocumentFixture()
	reviewer := uuid.New()
	doc := &domain.EmployeeDocument{ID: uuid.New(), EmployeeID: uuid.New(), SlotID: "national_id", VerificationStatus: domain.VerificationPending}
	emp := &domain.Employee{ID: doc.EmployeeID, Email: "e@test.com", FullName: "Emp"}

	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.docRepo.On("UpdateVerification", mock.Anything, doc).Return(nil)
	f.employees.On("GetByID", mock.Anything, doc.EmployeeID).Return(emp, nil)
	f.email.On("SendDocumentDecisionEmail", mock.Anything, port.DecisionEmail{
		ToEmail: "e@test.com", ToName: "Emp", SlotLabel: "National ID", Status: domain.VerificationVerified,
	}).Return(nil)

	var heard *domain.EmployeeDocument
	f.svc.OnDecision(func(d *domain.EmployeeDocument) { heard = d })

	got, err := f.svc.Verify(context.Background(), doc.ID, reviewer)

	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, got.VerificationStatus)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, reviewer, *got.VerifiedBy)
	assert.NotNil(t, got.VerifiedAt)
	assert.Same(t, got, heard)
	f.email.AssertExpectations(t)
	f.publisher.AssertCalled(t, "PublishDecision", mock.Anything, mock.MatchedBy(func(e port.DecisionEvent) bool {
		return e.Status == domain.VerificationVerified && e.DecidedBy != nil && *e.DecidedBy == reviewer
	}))
}

func TestDocumentService_Reject_RequiresReason(t *testing.T) {
	f := newDocumentFixture()

	_, err := f.svc.Reject(context.Background(), uuid.New(), uuid.New(), "   ")
	assert.ErrorIs(t, err, domain.ErrRejectionReason)
	f.docRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDocumentService_Reject_RespectsEmailOptOut(t *testing.T) {
	f := newDocumentFixture()
	doc := &domain.EmployeeDocument{ID: uuid.New(), EmployeeID: uuid.New(), SlotID: "resume"}
	emp := &domain.Employee{ID: doc.EmployeeID, Settings: json.RawMessage(`{"email_notifications":false}`)}

	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.docRepo.On("UpdateVerification", mock.Anything, doc).Return(nil)
	f.employees.On("GetByID", mock.Anything, doc.EmployeeID).Return(emp, nil)

	got, err := f.svc.Reject(context.Background(), doc.ID, uuid.New(), " expired ")

	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, got.VerificationStatus)
	assert.Equal(t, "expired", got.RejectionReason)
	f.email.AssertNotCalled(t, "SendDocumentDecisionEmail", mock.Anything, mock.Anything)
}

func TestDocumentService_ApplyDecision_InvalidStatus(t *testing.T) {
	f := newDocumentFixture()

	_, err := f.svc.ApplyDecision(context.Background(), domain.VerificationDecision{DocumentID: uuid.New(), Status: domain.VerificationNone})
	assert.ErrorIs(t, err, domain.ErrInvalidVerification)
}

func TestDocumentService_ApplyDecision_PendingClearsReviewer(t *testing.T) {
	f := newDocumentFixture()
	reviewer := uuid.New()
	doc := &domain.EmployeeDocument{ID: uuid.New(), EmployeeID: uuid.New(), SlotID: "resume",
		VerificationStatus: domain.VerificationVerified, VerifiedBy: &reviewer}

	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.docRepo.On("UpdateVerification", mock.Anything, doc).Return(nil)

	got, err := f.svc.ApplyDecision(context.Background(), domain.VerificationDecision{
		DocumentID: doc.ID, Status: domain.VerificationPending, Reason: "ignored",
	})

	require.NoError(t, err)
	assert.Nil(t, got.VerifiedBy)
	assert.Nil(t, got.VerifiedAt)
	assert.Empty(t, got.RejectionReason)
	f.employees.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDocumentService_ApplyDecision_PublishFailureIsNotFatal(t *testing.T) {
	f := newDocumentFixture()
	f.publisher = new(mocks.MockEventPublisher)
	f.svc = service.NewDocumentService(f.docRepo, f.employees, f.audit, f.files, f.publisher, nil, nil)

	doc := &domain.EmployeeDocument{ID: uuid.New(), EmployeeID: uuid.New(), SlotID: "resume"}
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.docRepo.On("UpdateVerification", mock.Anything, doc).Return(nil)
	f.publisher.On("PublishDecision", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	_, err := f.svc.Verify(context.Background(), doc.ID, uuid.New())
	assert.NoError(t, err)
}

func TestDocumentService_ListByStatus_DefaultsToPending(t *testing.T) {
	f := newDocumentFixture()
	f.docRepo.On("ListByStatus", mock.Anything, domain.VerificationPending, 0, 20).Return([]domain.EmployeeDocument{}, 0, nil)

	_, _, err := f.svc.ListByStatus(context.Background(), "", 0, 20)
	require.NoError(t, err)

	_, _, err = f.svc.ListByStatus(context.Background(), "approved", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidVerification)
}

func TestDocumentService_GetView(t *testing.T) {
	f := newDocumentFixture()
	doc := &domain.EmployeeDocument{ID: uuid.New(), FileID: uuid.New()}
	meta := &domain.FileMeta{ID: doc.FileID, OriginalName: "cv.pdf"}

	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.files.On("GetByID", mock.Anything, doc.FileID).Return(meta, nil)
	f.files.On("GetDownloadURL", mock.Anything, doc.FileID).Return("https://signed", nil)

	view, err := f.svc.GetView(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", view.DownloadURL)
	assert.Equal(t, meta, view.File)
}

func TestDocumentService_ListEmployeeAudit(t *testing.T) {
	f := newDocumentFixture()
	employeeID := uuid.New()
	entries := []domain.DocumentAuditEntry{{EmployeeID: employeeID, SlotID: "resume"}}

	f.employees.On("GetByID", mock.Anything, employeeID).Return(&domain.Employee{ID: employeeID}, nil)
	f.audit.On("ListByEmployee", mock.Anything, employeeID, 0, 20).Return(entries, 1, nil)

	got, total, err := f.svc.ListEmployeeAudit(context.Background(), employeeID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, entries, got)
}

func TestDocumentService_ListEmployeeAudit_UnknownEmployee(t *testing.T) {
	f := newDocumentFixture()
	employeeID := uuid.New()
	f.employees.On("GetByID", mock.Anything, employeeID).Return(nil, domain.ErrEmployeeNotFound)

	_, _, err := f.svc.ListEmployeeAudit(context.Background(), employeeID, 0, 20)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	f.audit.AssertNotCalled(t, "ListByEmployee", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
