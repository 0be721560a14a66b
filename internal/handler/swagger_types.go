package handler

import "time"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"jane.doe@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh and logout request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateEmployeeRequest represents the create employee request body.
type CreateEmployeeRequest struct {
	Email        string     `json:"email" binding:"required" example:"jane.doe@example.com"`
	Password     string     `json:"password" binding:"required" example:"securepassword123"`
	FullName     string     `json:"full_name" binding:"required" example:"Jane Doe"`
	Role         string     `json:"role" example:"employee"`
	EmployeeCode string     `json:"employee_code" binding:"required" example:"E-1042"`
	Department   string     `json:"department" example:"Finance"`
	Position     string     `json:"position" example:"Accountant"`
	Phone        string     `json:"phone" example:"+1 555 0100"`
	HireDate     *time.Time `json:"hire_date" example:"2025-03-01T00:00:00Z"`
}

// UpdateEmployeeRequest represents the update employee request body. Omitted fields are unchanged.
type UpdateEmployeeRequest struct {
	FullName   *string    `json:"full_name" example:"Jane Smith"`
	Department *string    `json:"department" example:"Operations"`
	Position   *string    `json:"position" example:"Team Lead"`
	Phone      *string    `json:"phone" example:"+1 555 0101"`
	HireDate   *time.Time `json:"hire_date" example:"2025-03-01T00:00:00Z"`
	Status     *string    `json:"status" example:"inactive"`
}

// UpdateProfileRequest represents the self-service profile update body.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" example:"Jane Doe"`
	Phone    *string `json:"phone" example:"+1 555 0100"`
}

// UpdateSettingsRequest represents the settings update body.
type UpdateSettingsRequest struct {
	EmailNotifications *bool `json:"email_notifications" example:"true"`
	CompactLayout      *bool `json:"compact_layout" example:"false"`
}

// RejectDocumentRequest represents the reject document request body.
type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required" example:"The photo is blurry"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
