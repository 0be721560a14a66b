package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/service"
)

// EmployeeHandler handles employee administration and self-service profile endpoints.
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create handles POST /api/v1/admin/employees
// @Summary Create an employee
// @Description Create an employee record together with its login account
// @Tags employees
// @Accept json
// @Produce json
// @Param body body CreateEmployeeRequest true "Employee"
// @Success 201 {object} Response{data=domain.Employee} "Employee created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Duplicate email or employee code"
// @Security BearerAuth
// @Router /admin/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var input service.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	emp, err := h.employeeService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, emp)
}

// List handles GET /api/v1/admin/employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Param department query string false "Department filter"
// @Param status query string false "Status filter (active, inactive)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Employee,meta=PagMeta} "Employees"
// @Security BearerAuth
// @Router /admin/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	employees, total, err := h.employeeService.List(c.Request.Context(), employeeFilter(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, employees, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/admin/employees/:id
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Success 200 {object} Response{data=domain.Employee} "Employee"
// @Failure 404 {object} ErrorResponseBody "Employee not found"
// @Security BearerAuth
// @Router /admin/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid employee ID")
		return
	}

	emp, err := h.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, emp)
}

// Update handles PUT /api/v1/admin/employees/:id
// @Summary Update an employee
// @Description Partial update. Setting status to inactive also disables the login account.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Param body body UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} Response{data=domain.Employee} "Updated employee"
// @Failure 404 {object} ErrorResponseBody "Employee not found"
// @Security BearerAuth
// @Router /admin/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid employee ID")
		return
	}

	var input service.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	emp, err := h.employeeService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, emp)
}

// Delete handles DELETE /api/v1/admin/employees/:id
// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Employee deleted"
// @Failure 404 {object} ErrorResponseBody "Employee not found"
// @Security BearerAuth
// @Router /admin/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid employee ID")
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "employee deleted"})
}

// GetProfile handles GET /api/v1/me/profile
// @Summary Get my profile
// @Tags me
// @Produce json
// @Success 200 {object} Response{data=domain.Employee} "Profile"
// @Failure 404 {object} ErrorResponseBody "No employee record"
// @Security BearerAuth
// @Router /me/profile [get]
func (h *EmployeeHandler) GetProfile(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	emp, err := h.employeeService.GetProfile(c.Request.Context(), s.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, emp)
}

// UpdateProfile handles PUT /api/v1/me/profile
// @Summary Update my profile
// @Description Only the full name and phone number can be changed
// @Tags me
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} Response{data=domain.Employee} "Updated profile"
// @Security BearerAuth
// @Router /me/profile [put]
func (h *EmployeeHandler) UpdateProfile(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	emp, err := h.employeeService.UpdateProfile(c.Request.Context(), s.UserID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, emp)
}

// GetSettings handles GET /api/v1/me/settings
// @Summary Get my settings
// @Tags me
// @Produce json
// @Success 200 {object} Response{data=domain.EmployeeSettings} "Settings"
// @Security BearerAuth
// @Router /me/settings [get]
func (h *EmployeeHandler) GetSettings(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	if s.EmployeeID == uuid.Nil {
		HandleError(c, domain.ErrEmployeeNotFound)
		return
	}

	settings, err := h.employeeService.GetSettings(c.Request.Context(), s.EmployeeID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}

// UpdateSettings handles PUT /api/v1/me/settings
// @Summary Update my settings
// @Tags me
// @Accept json
// @Produce json
// @Param body body UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} Response{data=domain.EmployeeSettings} "Updated settings"
// @Security BearerAuth
// @Router /me/settings [put]
func (h *EmployeeHandler) UpdateSettings(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	if s.EmployeeID == uuid.Nil {
		HandleError(c, domain.ErrEmployeeNotFound)
		return
	}

	var input service.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	settings, err := h.employeeService.UpdateSettings(c.Request.Context(), s.EmployeeID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}

func employeeFilter(c *gin.Context) port.EmployeeFilter {
	return port.EmployeeFilter{
		Department: c.Query("department"),
		Status:     domain.EmployeeStatus(c.Query("status")),
	}
}
