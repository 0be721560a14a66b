package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/policy"
	"hrdesk/internal/service"
)

// DocumentHandler handles committed documents and their verification.
type DocumentHandler struct {
	documentService service.DocumentService
	policy          policy.Policy
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, p policy.Policy) *DocumentHandler {
	if p == nil {
		p = policy.Permissive()
	}
	return &DocumentHandler{documentService: documentService, policy: p}
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Description Document metadata, file metadata and a presigned download URL
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.DocumentView} "Document"
// @Failure 403 {object} ErrorResponseBody "Not the document owner"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	docID, ok := documentParam(c)
	if !ok {
		return
	}

	view, err := h.documentService.GetView(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !h.policy.Can(s, policy.DocumentRead, policy.Employee(view.Document.EmployeeID)) {
		HandleError(c, domain.ErrForbidden)
		return
	}

	RespondOK(c, view)
}

// ListMine handles GET /api/v1/me/documents
// @Summary List my documents
// @Tags me
// @Produce json
// @Success 200 {object} Response{data=[]domain.EmployeeDocument} "Committed documents"
// @Security BearerAuth
// @Router /me/documents [get]
func (h *DocumentHandler) ListMine(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	if s.EmployeeID == uuid.Nil {
		HandleError(c, domain.ErrEmployeeNotFound)
		return
	}

	docs, err := h.documentService.ListByEmployee(c.Request.Context(), s.EmployeeID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, docs)
}

// ListByStatus handles GET /api/v1/admin/documents
// @Summary Verification queue
// @Description Documents in the given verification status, oldest first
// @Tags verification
// @Produce json
// @Param status query string false "pending, verified or rejected" default(pending)
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.EmployeeDocument,meta=PagMeta} "Documents"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Security BearerAuth
// @Router /admin/documents [get]
func (h *DocumentHandler) ListByStatus(c *gin.Context) {
	offset, limit := parsePagination(c)
	status := domain.VerificationStatus(c.Query("status"))

	docs, total, err := h.documentService.ListByStatus(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Verify handles POST /api/v1/admin/documents/:id/verify
// @Summary Verify a document
// @Tags verification
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.EmployeeDocument} "Verified document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /admin/documents/{id}/verify [post]
func (h *DocumentHandler) Verify(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	docID, ok := documentParam(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Verify(c.Request.Context(), docID, s.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Reject handles POST /api/v1/admin/documents/:id/reject
// @Summary Reject a document
// @Tags verification
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param body body RejectDocumentRequest true "Rejection reason"
// @Success 200 {object} Response{data=domain.EmployeeDocument} "Rejected document"
// @Failure 400 {object} ErrorResponseBody "Reason missing"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /admin/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	docID, ok := documentParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		HandleError(c, domain.ErrRejectionReason)
		return
	}

	doc, err := h.documentService.Reject(c.Request.Context(), docID, s.UserID, req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// ListAudit handles GET /api/v1/admin/documents/:id/audit
// @Summary Document audit trail
// @Tags verification
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.DocumentAuditEntry,meta=PagMeta} "Audit entries, newest first"
// @Security BearerAuth
// @Router /admin/documents/{id}/audit [get]
func (h *DocumentHandler) ListAudit(c *gin.Context) {
	docID, ok := documentParam(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)

	entries, total, err := h.documentService.ListAudit(c.Request.Context(), docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListEmployeeAudit handles GET /api/v1/admin/employees/:id/audit
// @Summary Employee document history
// @Description Audit entries across all of an employee's slots, including removed documents
// @Tags verification
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.DocumentAuditEntry,meta=PagMeta} "Audit entries, newest first"
// @Failure 404 {object} ErrorResponseBody "Employee not found"
// @Security BearerAuth
// @Router /admin/employees/{id}/audit [get]
func (h *DocumentHandler) ListEmployeeAudit(c *gin.Context) {
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)

	entries, total, err := h.documentService.ListEmployeeAudit(c.Request.Context(), employeeID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

func documentParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return uuid.Nil, false
	}
	return id, true
}
