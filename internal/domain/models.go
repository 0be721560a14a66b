package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated login identity.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeSettings holds self-service preferences.
type EmployeeSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	CompactLayout      bool `json:"compact_layout"`
}

// DefaultEmployeeSettings returns the settings assigned to new employees.
func DefaultEmployeeSettings() EmployeeSettings {
	return EmployeeSettings{EmailNotifications: true}
}

// Employee is an HR record linked to a login user.
type Employee struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id"`
	EmployeeCode string          `db:"employee_code" json:"employee_code"`
	FullName     string          `db:"full_name" json:"full_name"`
	Email        string          `db:"email" json:"email"`
	Department   string          `db:"department" json:"department"`
	Position     string          `db:"position" json:"position"`
	Phone        string          `db:"phone" json:"phone"`
	HireDate     *time.Time      `db:"hire_date" json:"hire_date"`
	Status       EmployeeStatus  `db:"status" json:"status"`
	Settings     json.RawMessage `db:"settings" json:"settings"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// DecodeSettings returns the employee settings, falling back to defaults on empty or malformed data.
func (e *Employee) DecodeSettings() EmployeeSettings {
	s := DefaultEmployeeSettings()
	if len(e.Settings) == 0 {
		return s
	}
	if err := json.Unmarshal(e.Settings, &s); err != nil {
		return DefaultEmployeeSettings()
	}
	return s
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	Bucket       string     `db:"bucket" json:"bucket"`
	StorageKey   string     `db:"storage_key" json:"storage_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	PageCount    int        `db:"page_count" json:"page_count"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// EmployeeDocument is a committed upload for one document slot of an employee.
type EmployeeDocument struct {
	ID                 uuid.UUID          `db:"id" json:"id"`
	EmployeeID         uuid.UUID          `db:"employee_id" json:"employee_id"`
	SlotID             string             `db:"slot_id" json:"slot_id"`
	FileID             uuid.UUID          `db:"file_id" json:"file_id"`
	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`
	RejectionReason    string             `db:"rejection_reason" json:"rejection_reason"`
	VerifiedBy         *uuid.UUID         `db:"verified_by" json:"verified_by"`
	VerifiedAt         *time.Time         `db:"verified_at" json:"verified_at"`
	UploadedBy         uuid.UUID          `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// DocumentAuditEntry records a mutation on an employee document.
type DocumentAuditEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	EmployeeID uuid.UUID       `db:"employee_id" json:"employee_id"`
	SlotID     string          `db:"slot_id" json:"slot_id"`
	UserID     *uuid.UUID      `db:"user_id" json:"user_id"`
	Action     string          `db:"action" json:"action"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// VerificationDecision is a verification outcome produced by a reviewer or an external verifier.
type VerificationDecision struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Status     VerificationStatus `json:"status"`
	Reason     string             `json:"reason,omitempty"`
	DecidedBy  *uuid.UUID         `json:"decided_by,omitempty"`
	DecidedAt  time.Time          `json:"decided_at"`
}

// DashboardStats holds aggregate figures for the admin dashboard.
type DashboardStats struct {
	TotalEmployees        int `db:"total_employees" json:"total_employees"`
	ActiveEmployees       int `db:"active_employees" json:"active_employees"`
	DocumentsPending      int `db:"documents_pending" json:"documents_pending"`
	DocumentsVerified     int `db:"documents_verified" json:"documents_verified"`
	DocumentsRejected     int `db:"documents_rejected" json:"documents_rejected"`
	IncompleteEmployees   int `db:"-" json:"incomplete_employees"`
	RequiredSlotsPerStaff int `db:"-" json:"required_slots_per_employee"`
}

// EmployeeDocumentStatus is one row of the per-employee slot status matrix used by export and the dashboard.
type EmployeeDocumentStatus struct {
	EmployeeID         uuid.UUID          `db:"employee_id"`
	SlotID             string             `db:"slot_id"`
	VerificationStatus VerificationStatus `db:"verification_status"`
}
