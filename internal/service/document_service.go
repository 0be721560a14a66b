package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/upload"
)

// CommitInput is the DTO for attaching a stored file to an employee's document slot.
type CommitInput struct {
	EmployeeID uuid.UUID
	SlotID     string
	FileID     uuid.UUID
	UploadedBy uuid.UUID
}

// DocumentView is a committed document with its file metadata and a download URL.
type DocumentView struct {
	Document    *domain.EmployeeDocument `json:"document"`
	File        *domain.FileMeta         `json:"file"`
	DownloadURL string                   `json:"download_url"`
}

// DecisionListener is called after a verification decision has been stored.
type DecisionListener func(doc *domain.EmployeeDocument)

// DocumentService defines the contract for committed slot documents and their verification.
type DocumentService interface {
	Commit(ctx context.Context, input CommitInput) (*domain.EmployeeDocument, error)
	RemoveBySlot(ctx context.Context, employeeID uuid.UUID, slotID string, userID uuid.UUID) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.EmployeeDocument, error)
	GetView(ctx context.Context, docID uuid.UUID) (*DocumentView, error)
	GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error)
	ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error)
	Verify(ctx context.Context, docID, reviewerID uuid.UUID) (*domain.EmployeeDocument, error)
	Reject(ctx context.Context, docID, reviewerID uuid.UUID, reason string) (*domain.EmployeeDocument, error)
	ApplyDecision(ctx context.Context, decision domain.VerificationDecision) (*domain.EmployeeDocument, error)
	OnDecision(listener DecisionListener)
	ListAudit(ctx context.Context, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error)
	// ListEmployeeAudit includes entries of documents that have since been removed.
	ListEmployeeAudit(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error)
}

type documentService struct {
	docRepo      port.EmployeeDocumentRepository
	employeeRepo port.EmployeeRepository
	auditRepo    port.DocumentAuditRepository
	files        FileService
	publisher    port.EventPublisher
	email        port.EmailSender
	catalog      *upload.Catalog

	mu        sync.RWMutex
	listeners []DecisionListener
}

// NewDocumentService creates a new DocumentService implementation.
// publisher and email may be nil.
func NewDocumentService(
	docRepo port.EmployeeDocumentRepository,
	employeeRepo port.EmployeeRepository,
	auditRepo port.DocumentAuditRepository,
	files FileService,
	publisher port.EventPublisher,
	email port.EmailSender,
	catalog *upload.Catalog,
) DocumentService {
	if catalog == nil {
		catalog = upload.DefaultCatalog()
	}
	return &documentService{
		docRepo:      docRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		files:        files,
		publisher:    publisher,
		email:        email,
		catalog:      catalog,
	}
}

// audit records a document mutation in the audit log. Failures are logged but never block business logic.
func (s *documentService) audit(ctx context.Context, doc *domain.EmployeeDocument, userID *uuid.UUID, action domain.AuditAction, changes any) {
	if s.auditRepo == nil {
		return
	}
	raw := json.RawMessage("{}")
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			raw = b
		}
	}
	entry := &domain.DocumentAuditEntry{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		EmployeeID: doc.EmployeeID,
		SlotID:     doc.SlotID,
		UserID:     userID,
		Action:     string(action),
		Changes:    raw,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("documentService.audit: failed to write audit entry for %s/%s: %v", action, doc.ID, err)
	}
}

func (s *documentService) Commit(ctx context.Context, input CommitInput) (*domain.EmployeeDocument, error) {
	if _, ok := s.catalog.Get(input.SlotID); !ok {
		return nil, domain.ErrSlotNotFound
	}

	previous, err := s.docRepo.GetBySlot(ctx, input.EmployeeID, input.SlotID)
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, fmt.Errorf("documentService.Commit: %w", err)
	}

	doc := &domain.EmployeeDocument{
		EmployeeID:         input.EmployeeID,
		SlotID:             input.SlotID,
		FileID:             input.FileID,
		VerificationStatus: domain.VerificationPending,
		UploadedBy:         input.UploadedBy,
	}
	if previous != nil {
		doc.ID = previous.ID
	}
	if err := s.docRepo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.Commit: %w", err)
	}

	if previous != nil && previous.FileID != input.FileID {
		if err := s.files.Delete(ctx, previous.FileID); err != nil {
			log.Printf("documentService.Commit: failed to delete replaced file %s: %v", previous.FileID, err)
		}
	}

	log.Printf("documentService.Commit: employee %s slot %s now holds file %s (document %s)",
		doc.EmployeeID, doc.SlotID, doc.FileID, doc.ID)
	s.audit(ctx, doc, &input.UploadedBy, domain.AuditDocumentUpload, map[string]any{
		"slot_id":  doc.SlotID,
		"file_id":  doc.FileID,
		"replaced": previous != nil,
	})
	s.publish(ctx, doc, &input.UploadedBy, time.Now().UTC())
	return doc, nil
}

func (s *documentService) RemoveBySlot(ctx context.Context, employeeID uuid.UUID, slotID string, userID uuid.UUID) error {
	doc, err := s.docRepo.GetBySlot(ctx, employeeID, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil
		}
		return fmt.Errorf("documentService.RemoveBySlot: %w", err)
	}

	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("documentService.RemoveBySlot: %w", err)
	}
	if err := s.files.Delete(ctx, doc.FileID); err != nil {
		log.Printf("documentService.RemoveBySlot: failed to delete file %s: %v", doc.FileID, err)
	}

	s.audit(ctx, doc, &userID, domain.AuditDocumentRemove, map[string]any{"slot_id": slotID, "file_id": doc.FileID})
	return nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.EmployeeDocument, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) GetView(ctx context.Context, docID uuid.UUID) (*DocumentView, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	meta, err := s.files.GetByID(ctx, doc.FileID)
	if err != nil {
		return nil, err
	}
	url, err := s.files.GetDownloadURL(ctx, doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("documentService.GetView: %w", err)
	}
	return &DocumentView{Document: doc, File: meta, DownloadURL: url}, nil
}

func (s *documentService) GetBySlot(ctx context.Context, employeeID uuid.UUID, slotID string) (*domain.EmployeeDocument, error) {
	return s.docRepo.GetBySlot(ctx, employeeID, slotID)
}

func (s *documentService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.EmployeeDocument, error) {
	return s.docRepo.ListByEmployee(ctx, employeeID)
}

func (s *documentService) ListByStatus(ctx context.Context, status domain.VerificationStatus, offset, limit int) ([]domain.EmployeeDocument, int, error) {
	if status == "" {
		status = domain.VerificationPending
	}
	if !domain.ValidVerificationStatuses[status] {
		return nil, 0, domain.ErrInvalidVerification
	}
	return s.docRepo.ListByStatus(ctx, status, offset, limit)
}

func (s *documentService) Verify(ctx context.Context, docID, reviewerID uuid.UUID) (*domain.EmployeeDocument, error) {
	return s.ApplyDecision(ctx, domain.VerificationDecision{
		DocumentID: docID,
		Status:     domain.VerificationVerified,
		DecidedBy:  &reviewerID,
		DecidedAt:  time.Now().UTC(),
	})
}

func (s *documentService) Reject(ctx context.Context, docID, reviewerID uuid.UUID, reason string) (*domain.EmployeeDocument, error) {
	return s.ApplyDecision(ctx, domain.VerificationDecision{
		DocumentID: docID,
		Status:     domain.VerificationRejected,
		Reason:     reason,
		DecidedBy:  &reviewerID,
		DecidedAt:  time.Now().UTC(),
	})
}

func (s *documentService) ApplyDecision(ctx context.Context, decision domain.VerificationDecision) (*domain.EmployeeDocument, error) {
	if !domain.ValidVerificationStatuses[decision.Status] {
		return nil, domain.ErrInvalidVerification
	}
	reason := strings.TrimSpace(decision.Reason)
	if decision.Status == domain.VerificationRejected && reason == "" {
		return nil, domain.ErrRejectionReason
	}
	if decision.Status != domain.VerificationRejected {
		reason = ""
	}
	if decision.DecidedAt.IsZero() {
		decision.DecidedAt = time.Now().UTC()
	}

	doc, err := s.docRepo.GetByID(ctx, decision.DocumentID)
	if err != nil {
		return nil, err
	}

	doc.VerificationStatus = decision.Status
	doc.RejectionReason = reason
	if decision.Status == domain.VerificationPending {
		doc.VerifiedBy = nil
		doc.VerifiedAt = nil
	} else {
		decidedAt := decision.DecidedAt
		doc.VerifiedBy = decision.DecidedBy
		doc.VerifiedAt = &decidedAt
	}

	if err := s.docRepo.UpdateVerification(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating verification status: %w", err)
	}

	log.Printf("documentService.ApplyDecision: document %s (%s) for employee %s is now %s",
		doc.ID, doc.SlotID, doc.EmployeeID, doc.VerificationStatus)
	s.audit(ctx, doc, decision.DecidedBy, auditActionFor(decision.Status), map[string]any{
		"status": string(decision.Status),
		"reason": reason,
	})

	s.publish(ctx, doc, decision.DecidedBy, decision.DecidedAt)
	s.notifyEmployee(ctx, doc)

	s.mu.RLock()
	listeners := append([]DecisionListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(doc)
	}
	return doc, nil
}

func auditActionFor(status domain.VerificationStatus) domain.AuditAction {
	switch status {
	case domain.VerificationVerified:
		return domain.AuditDocumentVerify
	case domain.VerificationRejected:
		return domain.AuditDocumentReject
	default:
		return domain.AuditDocumentReset
	}
}

func (s *documentService) OnDecision(listener DecisionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *documentService) ListAudit(ctx context.Context, docID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	return s.auditRepo.ListByDocument(ctx, docID, offset, limit)
}

func (s *documentService) ListEmployeeAudit(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]domain.DocumentAuditEntry, int, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.ListByEmployee(ctx, employeeID, offset, limit)
}

func (s *documentService) publish(ctx context.Context, doc *domain.EmployeeDocument, by *uuid.UUID, at time.Time) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishDecision(ctx, port.DecisionEvent{
		DocumentID: doc.ID,
		EmployeeID: doc.EmployeeID,
		SlotID:     doc.SlotID,
		Status:     doc.VerificationStatus,
		Reason:     doc.RejectionReason,
		DecidedBy:  by,
		DecidedAt:  at,
	})
	if err != nil {
		log.Printf("documentService.publish: failed to publish %s for document %s: %v", doc.VerificationStatus, doc.ID, err)
	}
}

// notifyEmployee emails verified and rejected decisions to employees who opted in.
func (s *documentService) notifyEmployee(ctx context.Context, doc *domain.EmployeeDocument) {
	if s.email == nil || doc.VerificationStatus == domain.VerificationPending {
		return
	}
	emp, err := s.employeeRepo.GetByID(ctx, doc.EmployeeID)
	if err != nil {
		log.Printf("documentService.notifyEmployee: failed to load employee %s: %v", doc.EmployeeID, err)
		return
	}
	if !emp.DecodeSettings().EmailNotifications {
		return
	}

	label := doc.SlotID
	if def, ok := s.catalog.Get(doc.SlotID); ok {
		label = def.Label
	}
	err = s.email.SendDocumentDecisionEmail(ctx, port.DecisionEmail{
		ToEmail:   emp.Email,
		ToName:    emp.FullName,
		SlotLabel: label,
		Status:    doc.VerificationStatus,
		Reason:    doc.RejectionReason,
	})
	if err != nil {
		log.Printf("documentService.notifyEmployee: failed to email %s: %v", emp.Email, err)
	}
}
