package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrdesk/internal/service"
	"hrdesk/internal/upload"
)

const (
	defaultMaxRequestMB = 25
	sseHeartbeat        = 20 * time.Second
)

// UploadHandler serves the live document slots.
type UploadHandler struct {
	uploads      service.UploadService
	maxRequestMB int64
}

// NewUploadHandler creates a new UploadHandler. maxRequestMB bounds the multipart request body.
func NewUploadHandler(uploads service.UploadService, maxRequestMB int64) *UploadHandler {
	if maxRequestMB <= 0 {
		maxRequestMB = defaultMaxRequestMB
	}
	return &UploadHandler{uploads: uploads, maxRequestMB: maxRequestMB}
}

// Slots handles GET /api/v1/documents/slots
// @Summary List document slots
// @Description The documents every employee is asked to provide
// @Tags documents
// @Produce json
// @Success 200 {object} Response{data=[]upload.Definition} "Slot catalog"
// @Security BearerAuth
// @Router /documents/slots [get]
func (h *UploadHandler) Slots(c *gin.Context) {
	RespondOK(c, h.uploads.Catalog().Slots)
}

// Select handles POST /api/v1/employees/:id/documents/:slot
// @Summary Select a file for a slot
// @Description Validates the file and starts its upload. Progress is available from the state and events endpoints.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Param slot path string true "Slot ID"
// @Param file formData file true "Document file"
// @Success 202 {object} Response{data=upload.State} "Upload started"
// @Failure 409 {object} ErrorResponseBody "Slot is read-only"
// @Failure 413 {object} ErrorResponseBody "Request body too large"
// @Failure 422 {object} ErrorResponseBody "File rejected by the slot"
// @Security BearerAuth
// @Router /employees/{id}/documents/{slot} [post]
func (h *UploadHandler) Select(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestMB<<20)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body exceeds the upload limit")
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}

	f := &upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}
	st, err := h.uploads.Select(c.Request.Context(), employeeID, c.Param("slot"), f, s.UserID)
	if err != nil {
		respondSlotError(c, st, err)
		return
	}

	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: st})
}

// State handles GET /api/v1/employees/:id/documents/:slot/state
// @Summary Get slot state
// @Tags documents
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Param slot path string true "Slot ID"
// @Success 200 {object} Response{data=upload.State} "Slot snapshot"
// @Failure 404 {object} ErrorResponseBody "Unknown slot or employee"
// @Security BearerAuth
// @Router /employees/{id}/documents/{slot}/state [get]
func (h *UploadHandler) State(c *gin.Context) {
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	st, err := h.uploads.State(c.Request.Context(), employeeID, c.Param("slot"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, st)
}

// Events handles GET /api/v1/employees/:id/documents/:slot/events
// @Summary Stream slot state
// @Description Server-sent events. Each "state" event carries an upload.State; "ping" events keep the stream open.
// @Tags documents
// @Produce text/event-stream
// @Param id path string true "Employee ID (UUID)"
// @Param slot path string true "Slot ID"
// @Success 200 {object} upload.State "State events"
// @Security BearerAuth
// @Router /employees/{id}/documents/{slot}/events [get]
func (h *UploadHandler) Events(c *gin.Context) {
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	states, cancel, err := h.uploads.Subscribe(c.Request.Context(), employeeID, c.Param("slot"))
	if err != nil {
		HandleError(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	done := c.Request.Context().Done()
	c.Stream(func(io.Writer) bool {
		select {
		case st, open := <-states:
			if !open {
				return false
			}
			c.SSEvent("state", st)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-done:
			return false
		}
	})
}

// Remove handles DELETE /api/v1/employees/:id/documents/:slot
// @Summary Remove a slot's document
// @Description Clears the slot and deletes the committed document, if any
// @Tags documents
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Param slot path string true "Slot ID"
// @Success 200 {object} Response{data=upload.State} "Slot cleared"
// @Failure 409 {object} ErrorResponseBody "Slot is read-only"
// @Security BearerAuth
// @Router /employees/{id}/documents/{slot} [delete]
func (h *UploadHandler) Remove(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	employeeID, ok := employeeParam(c)
	if !ok {
		return
	}

	st, err := h.uploads.Remove(c.Request.Context(), employeeID, c.Param("slot"), s.UserID)
	if err != nil {
		respondSlotError(c, st, err)
		return
	}

	RespondOK(c, st)
}

// respondSlotError sends the mapped error together with the slot state when there is one.
func respondSlotError(c *gin.Context, st upload.State, err error) {
	status, code, msg := MapDomainError(err)
	if st.ID == "" || status >= http.StatusInternalServerError {
		HandleError(c, err)
		return
	}
	c.JSON(status, APIResponse{
		Success: false,
		Data:    st,
		Error:   &APIError{Code: code, Message: msg},
	})
}

func employeeParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid employee ID")
		return uuid.Nil, false
	}
	return id, true
}
