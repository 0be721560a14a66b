package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrdesk/internal/export"
	"hrdesk/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the employee roster export.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Roster handles GET /api/v1/admin/employees/export
// @Summary Export employee roster
// @Description Spreadsheet with one row per employee and one verification status column per document slot
// @Tags employees
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx or csv" default(xlsx)
// @Param department query string false "Department filter"
// @Param status query string false "Employee status filter"
// @Success 200 {file} file "Roster"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Security BearerAuth
// @Router /admin/employees/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be xlsx or csv")
		return
	}

	roster, err := h.exportService.Roster(c.Request.Context(), employeeFilter(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = roster.WriteXLSX(&buf)
	} else {
		err = roster.WriteCSV(&buf)
	}
	if err != nil {
		HandleError(c, fmt.Errorf("exportHandler.Roster: %w", err))
		return
	}

	name := export.BuildFilename("employee-roster", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
